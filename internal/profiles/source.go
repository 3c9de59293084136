package profiles

import (
	"context"
	"errors"

	"github.com/profilku/profilku/internal/models"
)

var (
	// ErrNoRows means no profile row matches the user id.
	ErrNoRows = errors.New("profile not found")
	// ErrMultipleRows means the id matched more than one row.
	ErrMultipleRows = errors.New("multiple profiles for one id")
)

// Source performs the single point lookup on the profiles table.
// accessToken is the caller's hosted-auth token; sources that enforce
// row-level security forward it, direct database sources ignore it.
type Source interface {
	ByID(ctx context.Context, id, accessToken string) (*models.Profile, error)
}
