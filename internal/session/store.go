package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Vaishnavigophane/NestAway-backend/internal/models"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store keeps the snapshot of an authenticated user keyed by session ID.
// It is the authority on whether a session is still alive: deleting an
// entry logs the client out regardless of any token it still holds.
type Store interface {
	Get(ctx context.Context, id string) (models.SessionUser, error)
	Put(ctx context.Context, id string, user models.SessionUser) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	user      models.SessionUser
	expiresAt time.Time
}

// MemoryStore is the default in-process session store.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
}

// NewMemoryStore creates a MemoryStore whose entries expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return models.SessionUser{}, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return models.SessionUser{}, ErrNotFound
	}
	return entry.user, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, user models.SessionUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = memoryEntry{user: user, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
