package sessions

import (
	"context"
	"sync"
	"time"
)

// Repository provides session persistence operations
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRepository keeps records in process; used when Redis is not configured.
type MemoryRepository struct {
	mu    sync.Mutex
	store map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: map[string]*Record{}}
}

func (m *MemoryRepository) Save(ctx context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.store[r.ID] = &cp
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	if time.Now().UTC().After(r.ExpiresAt) {
		delete(m.store, id)
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}
