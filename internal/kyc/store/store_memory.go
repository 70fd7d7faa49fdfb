package store

import (
	"context"
	"sync"

	"kyc-gateway/internal/kyc/models"
	"kyc-gateway/internal/sentinel"
	id "kyc-gateway/pkg/domain"
)

// InMemoryStore stores documents in memory.
//
// byUser keeps per-user document IDs in insertion order so ListByUser can
// return them the way they were submitted without sorting.
type InMemoryStore struct {
	mu     sync.RWMutex
	docs   map[id.DocumentID]*models.Document
	byUser map[id.UserID][]id.DocumentID
}

// New constructs an empty in-memory document store.
func New() *InMemoryStore {
	return &InMemoryStore{
		docs:   make(map[id.DocumentID]*models.Document),
		byUser: make(map[id.UserID][]id.DocumentID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copyDoc := *doc
	s.docs[doc.ID] = &copyDoc
	s.byUser[doc.UserID] = append(s.byUser[doc.UserID], doc.ID)
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyDoc := *doc
	return &copyDoc, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byUser[userID]
	docs := make([]*models.Document, 0, len(ids))
	for _, docID := range ids {
		copyDoc := *s.docs[docID]
		docs = append(docs, &copyDoc)
	}
	return docs, nil
}

// UpdateStatus applies a single monotone transition. A document already in a
// terminal state returns ErrInvalidState so duplicate completion deliveries
// become no-ops at the caller.
func (s *InMemoryStore) UpdateStatus(_ context.Context, docID id.DocumentID, status models.DocumentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !doc.Status.CanTransitionTo(status) {
		return sentinel.ErrInvalidState
	}
	doc.Status = status
	return nil
}
