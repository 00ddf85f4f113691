// Package session хранит отозванные токены до истечения их срока.
package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore держит отзывы в памяти процесса; просроченные записи убирает Sweep
type MemoryStore struct {
	mtx     sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     now,
	}
}

func (s *MemoryStore) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if !until.After(s.now()) {
		return nil
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.revoked[tokenID] = until
	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	return until.After(s.now()), nil
}

// Sweep удаляет записи, срок которых прошёл, и возвращает их число
func (s *MemoryStore) Sweep(ctx context.Context) int {
	now := s.now()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	removed := 0
	for id, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.revoked)
}
