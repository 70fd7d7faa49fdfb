package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"kyc-gateway/internal/identity/models"
	"kyc-gateway/internal/sentinel"
	id "kyc-gateway/pkg/domain"
)

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	query := `
		INSERT INTO users (id, email, phone, password_hash, kyc_status, kyc_verified_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(user.ID),
		user.Email,
		user.Phone,
		user.PasswordHash,
		string(user.KYCStatus),
		user.KYCVerifiedAt,
		user.CreatedAt,
	)
	if err != nil {
		switch violatedConstraint(err) {
		case "users_email_key":
			return sentinel.ErrDuplicateEmail
		case "users_phone_key":
			return sentinel.ErrDuplicatePhone
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `
		SELECT id, email, phone, password_hash, kyc_status, kyc_verified_at, created_at
		FROM users
		WHERE id = $1
	`
	return scanUser(s.db.QueryRowContext(ctx, query, uuid.UUID(userID)))
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, phone, password_hash, kyc_status, kyc_verified_at, created_at
		FROM users
		WHERE email = $1
	`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// UpdateKYCStatus writes status and verification timestamp in one
// transaction, holding a row lock while the transition table is checked.
func (s *PostgresStore) UpdateKYCStatus(ctx context.Context, userID id.UserID, status models.KYCStatus, verifiedAt *time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kyc status tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	var current string
	row := tx.QueryRowContext(ctx, `SELECT kyc_status FROM users WHERE id = $1 FOR UPDATE`, uuid.UUID(userID))
	if err := row.Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("lock user row: %w", err)
	}

	if !models.KYCStatus(current).CanTransitionTo(status) {
		return sentinel.ErrInvalidState
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET kyc_status = $2, kyc_verified_at = $3 WHERE id = $1`,
		uuid.UUID(userID), string(status), verifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update kyc status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit kyc status: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		userID     uuid.UUID
		user       models.User
		status     string
		verifiedAt sql.NullTime
	)
	err := row.Scan(&userID, &user.Email, &user.Phone, &user.PasswordHash, &status, &verifiedAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.ID = id.UserID(userID)
	user.KYCStatus = models.KYCStatus(status)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		user.KYCVerifiedAt = &t
	}
	return &user, nil
}

func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}
