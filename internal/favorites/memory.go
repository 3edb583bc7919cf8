package favorites

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and single-process setups.
// Each user gets their own critical section so unrelated users never block
// each other.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]*userList
}

type userList struct {
	mu  sync.Mutex
	ids []string
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[int64]*userList)}
}

// List returns a copy of the user's favorites in insertion order.
func (s *MemoryStore) List(_ context.Context, userID int64) ([]string, error) {
	list := s.loadOrCreate(userID)

	list.mu.Lock()
	defer list.mu.Unlock()

	snapshot := make([]string, len(list.ids))
	copy(snapshot, list.ids)
	return snapshot, nil
}

// Add appends assetID if absent.
func (s *MemoryStore) Add(_ context.Context, userID int64, assetID string) (bool, error) {
	list := s.loadOrCreate(userID)

	list.mu.Lock()
	defer list.mu.Unlock()

	for _, id := range list.ids {
		if id == assetID {
			return false, nil
		}
	}

	list.ids = append(list.ids, assetID)
	return true, nil
}

// Remove deletes assetID if present.
func (s *MemoryStore) Remove(_ context.Context, userID int64, assetID string) (bool, error) {
	list := s.loadOrCreate(userID)

	list.mu.Lock()
	defer list.mu.Unlock()

	for i, id := range list.ids {
		if id == assetID {
			list.ids = append(list.ids[:i], list.ids[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

func (s *MemoryStore) loadOrCreate(userID int64) *userList {
	s.mu.RLock()
	list := s.users[userID]
	s.mu.RUnlock()

	if list != nil {
		return list
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if list = s.users[userID]; list == nil {
		list = &userList{}
		s.users[userID] = list
	}

	return list
}
