package store

import (
	"context"
	"sync"
	"time"

	"kyc-gateway/internal/identity/models"
	"kyc-gateway/internal/sentinel"
	id "kyc-gateway/pkg/domain"
)

// InMemoryStore stores user records in memory.
//
// The email and phone indexes are maintained under the same lock as the
// primary map, so there is no "read index, then write record" race window
// between concurrent creates.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
	byPhone map[string]id.UserID
}

// New constructs an empty in-memory user store.
func New() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
		byPhone: make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return sentinel.ErrDuplicateEmail
	}
	if _, ok := s.byPhone[user.Phone]; ok {
		return sentinel.ErrDuplicatePhone
	}
	copyUser := *user
	s.users[user.ID] = &copyUser
	s.byEmail[user.Email] = user.ID
	s.byPhone[user.Phone] = user.ID
	return nil
}

func (s *InMemoryStore) GetByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyUser := *user
	return &copyUser, nil
}

func (s *InMemoryStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyUser := *s.users[userID]
	return &copyUser, nil
}

// UpdateKYCStatus writes status and verification timestamp as one commit.
// Transitions not allowed by the state machine return ErrInvalidState.
func (s *InMemoryStore) UpdateKYCStatus(_ context.Context, userID id.UserID, status models.KYCStatus, verifiedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !user.KYCStatus.CanTransitionTo(status) {
		return sentinel.ErrInvalidState
	}
	user.KYCStatus = status
	user.KYCVerifiedAt = verifiedAt
	return nil
}
