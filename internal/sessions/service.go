package sessions

import (
	"context"
	"time"

	"github.com/profilku/profilku/internal/models"
)

// Service wraps repository operations with business logic
type Service struct {
	repo Repository
	ttl  time.Duration
}

// NewService creates a session service; ttl bounds how long a mirror is kept
// without the browser signing in again.
func NewService(r Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{repo: r, ttl: ttl}
}

// Put stores (or replaces) the hosted session mirrored for browser session id.
func (s *Service) Put(ctx context.Context, id string, auth *models.Session) error {
	now := time.Now().UTC()
	rec := &Record{ID: id, Auth: auth, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
	if prev, err := s.repo.Get(ctx, id); err == nil && prev != nil {
		rec.CreatedAt = prev.CreatedAt
	}
	return s.repo.Save(ctx, rec)
}

// Get returns the mirrored session, or nil when the browser has none.
func (s *Service) Get(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Auth == nil {
		return nil, nil
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		// cleanup expired record
		_ = s.repo.Delete(ctx, id)
		return nil, nil
	}
	return rec.Auth, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Ping checks the backing store when it supports it.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.repo.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
