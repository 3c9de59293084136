package profiles

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows feeds fixed rows through the pgx.Rows contract.
type fakeRows struct {
	rows [][]any
	i    int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.i-1], nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type fakeQuerier struct {
	rows  *fakeRows
	err   error
	query string
	args  []any
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.query, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func strptr(s string) *string { return &s }

func profileRow(id string) []any {
	created := pgtype.Text{String: "2024-03-05 10:00:00+00", Valid: true}
	return []any{id, "a@b.com", "abc", strptr("Budi"), nil, true, created}
}

func TestPostgresSource_OneRow(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: [][]any{profileRow("u1")}}}
	p, err := NewPostgresSource(q).ByID(context.Background(), "u1", "ignored")
	require.NoError(t, err)
	assert.Equal(t, []any{"u1"}, q.args)
	assert.Contains(t, q.query, "LIMIT 2")
	assert.Equal(t, "u1", p.ID)
	require.NotNil(t, p.FullName)
	assert.Equal(t, "Budi", *p.FullName)
	assert.Nil(t, p.AvatarURL)
	assert.True(t, p.PaymentLinked)
	assert.Equal(t, "2024-03-05 10:00:00+00", p.CreatedAt)
	assert.Contains(t, q.query, "created_at::text")
}

func TestPostgresSource_NullCreatedAt(t *testing.T) {
	row := profileRow("u1")
	row[6] = nil
	q := &fakeQuerier{rows: &fakeRows{rows: [][]any{row}}}
	p, err := NewPostgresSource(q).ByID(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "", p.CreatedAt)
}

func TestPostgresSource_RowCounts(t *testing.T) {
	_, err := NewPostgresSource(&fakeQuerier{rows: &fakeRows{}}).ByID(context.Background(), "u1", "")
	assert.True(t, errors.Is(err, ErrNoRows))

	two := &fakeRows{rows: [][]any{profileRow("u1"), profileRow("u1")}}
	_, err = NewPostgresSource(&fakeQuerier{rows: two}).ByID(context.Background(), "u1", "")
	assert.True(t, errors.Is(err, ErrMultipleRows))
}

func TestPostgresSource_Errors(t *testing.T) {
	_, err := NewPostgresSource(&fakeQuerier{err: errors.New("conn reset")}).ByID(context.Background(), "u1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conn reset")

	broken := &fakeRows{err: errors.New("unexpected EOF")}
	_, err = NewPostgresSource(&fakeQuerier{rows: broken}).ByID(context.Background(), "u1", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoRows))
}
