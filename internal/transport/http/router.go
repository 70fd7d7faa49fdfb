package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "kyc-gateway/internal/identity/handler"
	kychandler "kyc-gateway/internal/kyc/handler"
	"kyc-gateway/internal/platform/health"
	"kyc-gateway/internal/platform/metrics"
	"kyc-gateway/internal/platform/middleware"
)

// Dependencies carries everything the router wires together. Handlers stay
// transport-thin: all business logic lives behind the service interfaces.
type Dependencies struct {
	Identity identityhandler.Service
	KYC      kychandler.Service
	Health   *health.Handler
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewRouter wires all public endpoints with the middleware stack.
// JSON content-type enforcement is deliberately absent: the document
// submission endpoint takes multipart bodies.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	if deps.Metrics != nil {
		r.Use(endpointLatency(deps.Metrics))
	}

	identityhandler.New(deps.Identity, deps.Logger).Register(r)
	kychandler.New(deps.KYC, deps.Logger).Register(r)

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// endpointLatency records per-route request durations using the chi route
// pattern, so /kyc/{userID} aggregates across user IDs.
func endpointLatency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = r.URL.Path
			}
			m.ObserveEndpointLatency(r.Method+" "+pattern, time.Since(start).Seconds())
		})
	}
}
