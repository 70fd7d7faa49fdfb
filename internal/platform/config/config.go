package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string

	// DatabaseURL switches both stores to PostgreSQL when set; empty keeps
	// the in-memory stores.
	DatabaseURL string

	// S3Bucket switches document payload storage to S3 when set; empty keeps
	// the in-memory object store. S3Endpoint supports S3-compatible backends.
	S3Bucket   string
	S3Region   string
	S3Endpoint string

	// Verifier delay bounds for the mock verification backend.
	VerifierMinDelay time.Duration
	VerifierMaxDelay time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:             getEnv("KYC_GATEWAY_ADDR", ":8080"),
		Environment:      getEnv("KYC_GATEWAY_ENV", "development"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		S3Bucket:         os.Getenv("KYC_S3_BUCKET"),
		S3Region:         getEnv("KYC_S3_REGION", "us-east-1"),
		S3Endpoint:       os.Getenv("KYC_S3_ENDPOINT"),
		VerifierMinDelay: getDuration("VERIFIER_MIN_DELAY", 2*time.Second),
		VerifierMaxDelay: getDuration("VERIFIER_MAX_DELAY", 20*time.Second),
	}
	if cfg.VerifierMaxDelay < cfg.VerifierMinDelay {
		cfg.VerifierMaxDelay = cfg.VerifierMinDelay
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
