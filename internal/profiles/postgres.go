package profiles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/profilku/profilku/internal/models"
)

// querier is the part of *pgxpool.Pool the source uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the profiles table directly, for self-hosted deployments
// where the service owns the database connection.
type PostgresSource struct {
	db querier
}

func NewPostgresSource(db querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// LIMIT 2 is enough to tell one row from many. created_at is only displayed,
// so it is read as text: a NULL or oddly typed column must not fail the lookup.
const selectProfile = `
	SELECT id, email, username, full_name, avatar_url, payment_linked, created_at::text
	FROM profiles
	WHERE id = $1
	LIMIT 2
`

func (s *PostgresSource) ByID(ctx context.Context, id, _ string) (*models.Profile, error) {
	rows, err := s.db.Query(ctx, selectProfile, id)
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	defer rows.Close()

	var found []*models.Profile
	for rows.Next() {
		p := &models.Profile{}
		var createdAt pgtype.Text
		if err := rows.Scan(&p.ID, &p.Email, &p.Username, &p.FullName, &p.AvatarURL, &p.PaymentLinked, &createdAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if createdAt.Valid {
			p.CreatedAt = createdAt.String
		}
		found = append(found, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	switch len(found) {
	case 0:
		return nil, ErrNoRows
	case 1:
		return found[0], nil
	default:
		return nil, ErrMultipleRows
	}
}
