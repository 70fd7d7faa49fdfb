package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"kyc-gateway/internal/kyc/models"
	"kyc-gateway/internal/sentinel"
	id "kyc-gateway/pkg/domain"
)

// PostgresStore persists documents in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed document store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return fmt.Errorf("document is required")
	}
	query := `
		INSERT INTO documents (id, user_id, original_name, stored_name, content_type, size, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(doc.ID),
		uuid.UUID(doc.UserID),
		doc.OriginalName,
		doc.StoredName,
		doc.ContentType,
		doc.Size,
		string(doc.Status),
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	query := `
		SELECT id, user_id, original_name, stored_name, content_type, size, status, uploaded_at
		FROM documents
		WHERE id = $1
	`
	return scanDocument(s.db.QueryRowContext(ctx, query, uuid.UUID(docID)))
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error) {
	query := `
		SELECT id, user_id, original_name, stored_name, content_type, size, status, uploaded_at
		FROM documents
		WHERE user_id = $1
		ORDER BY uploaded_at, id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only rows

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// UpdateStatus moves a validating document to a terminal verdict. The WHERE
// clause makes the monotonicity check part of the same statement, so a
// duplicate completion finds zero rows and maps to ErrInvalidState.
func (s *PostgresStore) UpdateStatus(ctx context.Context, docID id.DocumentID, status models.DocumentStatus) error {
	if !models.DocumentStatusValidating.CanTransitionTo(status) {
		return sentinel.ErrInvalidState
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET status = $2 WHERE id = $1 AND status = $3`,
		uuid.UUID(docID), string(status), string(models.DocumentStatusValidating),
	)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document status rows: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		row := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, uuid.UUID(docID))
		if err := row.Scan(&exists); err != nil {
			return fmt.Errorf("check document existence: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row *sql.Row) (*models.Document, error) {
	doc, err := scanDocumentRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func scanDocumentRow(row rowScanner) (*models.Document, error) {
	var (
		docID  uuid.UUID
		userID uuid.UUID
		doc    models.Document
		status string
	)
	err := row.Scan(&docID, &userID, &doc.OriginalName, &doc.StoredName, &doc.ContentType, &doc.Size, &status, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.ID = id.DocumentID(docID)
	doc.UserID = id.UserID(userID)
	doc.Status = models.DocumentStatus(status)
	return &doc, nil
}
