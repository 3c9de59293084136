package sessions

import (
	"time"

	"github.com/profilku/profilku/internal/models"
)

// Record is the server-side mirror of one browser's hosted auth session,
// stored under the browser's session cookie id.
type Record struct {
	ID        string          `json:"id"`
	Auth      *models.Session `json:"auth"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}
