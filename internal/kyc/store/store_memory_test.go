package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyc-gateway/internal/kyc/models"
	"kyc-gateway/internal/sentinel"
	id "kyc-gateway/pkg/domain"
)

func newDocument(userID id.UserID, name string) *models.Document {
	return &models.Document{
		ID:           id.NewDocumentID(),
		UserID:       userID,
		OriginalName: name,
		StoredName:   fmt.Sprintf("%d-%s.png", time.Now().UnixNano(), name),
		ContentType:  "image/png",
		Size:         1024,
		Status:       models.DocumentStatusValidating,
		UploadedAt:   time.Now().UTC(),
	}
}

func TestInMemoryStoreOperations(t *testing.T) {
	store := New()
	ctx := context.Background()
	userID := id.NewUserID()

	doc := newDocument(userID, "id_valid.png")
	require.NoError(t, store.Create(ctx, doc))

	fetched, err := store.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusValidating, fetched.Status)
	assert.Equal(t, "id_valid.png", fetched.OriginalName)

	// Copy integrity
	fetched.Status = models.DocumentStatusValid
	again, err := store.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusValidating, again.Status)

	_, err = store.GetByID(ctx, id.NewDocumentID())
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryStoreListByUserOrder(t *testing.T) {
	store := New()
	ctx := context.Background()
	userID := id.NewUserID()
	otherID := id.NewUserID()

	names := []string{"first.png", "second.png", "third.pdf"}
	for _, name := range names {
		require.NoError(t, store.Create(ctx, newDocument(userID, name)))
	}
	require.NoError(t, store.Create(ctx, newDocument(otherID, "unrelated.png")))

	docs, err := store.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, name := range names {
		assert.Equal(t, name, docs[i].OriginalName, "insertion order preserved")
	}

	// Unknown user lists empty, not an error
	docs, err = store.ListByUser(ctx, id.NewUserID())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestInMemoryStoreUpdateStatusMonotone(t *testing.T) {
	store := New()
	ctx := context.Background()

	doc := newDocument(id.NewUserID(), "id_valid.png")
	require.NoError(t, store.Create(ctx, doc))

	require.NoError(t, store.UpdateStatus(ctx, doc.ID, models.DocumentStatusValid))

	// Terminal state admits no further transition, in either direction
	err := store.UpdateStatus(ctx, doc.ID, models.DocumentStatusInvalid)
	require.ErrorIs(t, err, sentinel.ErrInvalidState)
	err = store.UpdateStatus(ctx, doc.ID, models.DocumentStatusValid)
	require.ErrorIs(t, err, sentinel.ErrInvalidState)

	fetched, err := store.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusValid, fetched.Status)

	// Re-entering validating is never allowed
	err = store.UpdateStatus(ctx, doc.ID, models.DocumentStatusValidating)
	require.ErrorIs(t, err, sentinel.ErrInvalidState)

	err = store.UpdateStatus(ctx, id.NewDocumentID(), models.DocumentStatusValid)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}
