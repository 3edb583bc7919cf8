package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory Storage used in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	markers map[int64]*Marker
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStorage builds an empty in-memory storage.
func NewMemoryStorage(ttl time.Duration) *MemoryStorage {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &MemoryStorage{
		markers: make(map[int64]*Marker),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the user's marker, honoring expiry.
func (s *MemoryStorage) Get(_ context.Context, userID int64) (*Marker, error) {
	s.mu.RLock()
	marker := s.markers[userID]
	s.mu.RUnlock()

	if marker == nil {
		return nil, ErrMarkerNotFound
	}

	if s.now().Sub(marker.SetAt) > s.ttl {
		s.mu.Lock()
		delete(s.markers, userID)
		s.mu.Unlock()
		return nil, ErrMarkerNotFound
	}

	copied := *marker
	return &copied, nil
}

// Set overwrites the user's marker.
func (s *MemoryStorage) Set(_ context.Context, userID int64, command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers[userID] = &Marker{
		UserID:  userID,
		Command: command,
		SetAt:   s.now().UTC(),
	}
	return nil
}

// Clear removes the user's marker.
func (s *MemoryStorage) Clear(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.markers, userID)
	return nil
}
