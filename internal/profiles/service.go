package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/profilku/profilku/internal/models"
	"github.com/profilku/profilku/pkg/metrics"
)

// Service wraps the configured source with outcome accounting.
type Service struct {
	source Source
	ping   func(context.Context) error
	close  func()
}

func NewService(src Source) *Service {
	return &Service{source: src}
}

// Fetch returns the profile row of userID. Zero or several rows are errors
// matching ErrNoRows / ErrMultipleRows.
func (s *Service) Fetch(ctx context.Context, userID, accessToken string) (*models.Profile, error) {
	p, err := s.source.ByID(ctx, userID, accessToken)
	metrics.ProfileFetches.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", userID, err)
	}
	return p, nil
}

// Ping checks the backing database, when there is one.
func (s *Service) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backing connection, when there is one.
func (s *Service) Close() {
	if s.close != nil {
		s.close()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoRows):
		return "not_found"
	case errors.Is(err, ErrMultipleRows):
		return "multiple"
	default:
		return "error"
	}
}
