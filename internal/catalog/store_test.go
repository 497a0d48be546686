package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	val any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch d := dest[0].(type) {
	case *[]byte:
		*d = []byte(r.val.(string))
	case *int:
		*d = r.val.(int)
	default:
		return fmt.Errorf("unexpected scan target %T", d)
	}
	return nil
}

type call struct {
	sql  string
	args []any
}

type fakeDB struct {
	mu       sync.Mutex
	calls    []call
	query    func(sql string, args []any) fakeRow
	affected int64
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	f.calls = append(f.calls, call{sql, args})
	f.mu.Unlock()
	return f.query(sql, args)
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{sql, args})
	f.mu.Unlock()
	return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", f.affected)), nil
}

func rowJSON(v string) func(string, []any) fakeRow {
	return func(string, []any) fakeRow { return fakeRow{val: v} }
}

func TestPrepare_Validation(t *testing.T) {
	cases := []struct {
		name   string
		entity *Entity
		fields map[string]any
	}{
		{"unknown field", Products, map[string]any{"name": "Tile", "colour": "red"}},
		{"missing required", Products, map[string]any{"price": 4.0}},
		{"blank required", Projects, map[string]any{"title": "   "}},
		{"rating too high", Reviews, map[string]any{"customer_name": "Jo", "rating": 6.0}},
		{"fractional rating", Reviews, map[string]any{"customer_name": "Jo", "rating": 4.5}},
		{"bad enquiry status", Enquiries, map[string]any{"sender_name": "Jo", "status": "archived"}},
		{"bad email", Enquiries, map[string]any{"sender_name": "Jo", "sender_email": "nope"}},
		{"bad date", Projects, map[string]any{"title": "Villa", "start_date": "12/01/2026"}},
		{"tags not strings", Products, map[string]any{"name": "Tile", "tags": []any{"a", 2.0}}},
		{"negative price", Products, map[string]any{"name": "Tile", "price": -1.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.entity.prepare(tc.fields, true)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestPrepare_Converts(t *testing.T) {
	out, err := Properties.prepare(map[string]any{
		"title":    " Sea view ",
		"bedrooms": 3.0,
		"tags":     []any{"beach"},
		"features": map[string]any{"pool": true},
		"price":    nil,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "Sea view", out["title"])
	assert.Equal(t, int64(3), out["bedrooms"])
	assert.Equal(t, []string{"beach"}, out["tags"])
	assert.JSONEq(t, `{"pool":true}`, out["features"].(string))
	assert.Nil(t, out["price"])

	// Partial updates skip the required check for absent columns.
	_, err = Properties.prepare(map[string]any{"price": 10.0}, false)
	assert.NoError(t, err)
}

func TestStore_Create(t *testing.T) {
	db := &fakeDB{query: rowJSON(`{"id":"p1","name":"Tile"}`)}
	s := NewStore(db)

	row, err := s.Create(context.Background(), Products, "u1", map[string]any{
		"name": "Tile", "tags": []any{"floor"}, "specifications": map[string]any{"mm": 8.0},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Tile"}`, string(row))

	require.Len(t, db.calls, 1)
	assert.Equal(t,
		"WITH ins AS (INSERT INTO products (user_id, name, tags, specifications) VALUES ($1, $2, $3::text[], $4::jsonb) RETURNING *) SELECT row_to_json(ins) FROM ins",
		db.calls[0].sql)
	assert.Equal(t, []any{"u1", "Tile", []string{"floor"}, `{"mm":8}`}, db.calls[0].args)
}

func TestStore_List(t *testing.T) {
	db := &fakeDB{query: func(sql string, _ []any) fakeRow {
		if strings.HasPrefix(sql, "SELECT count(*)") {
			return fakeRow{val: 7}
		}
		return fakeRow{val: `[{"id":"a"}]`}
	}}
	s := NewStore(db)

	rows, total, err := s.List(context.Background(), Enquiries, "u1", ListOptions{Status: "new", Limit: 500, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.JSONEq(t, `[{"id":"a"}]`, string(rows))

	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[0].sql, "WHERE user_id = $1 AND status = $2")
	assert.Contains(t, db.calls[1].sql, "ORDER BY created_at DESC LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{"u1", "new", MaxLimit, 0}, db.calls[1].args)

	// Professionals have no status column, so the filter is ignored.
	db.calls = nil
	_, _, err = s.List(context.Background(), Professionals, "u1", ListOptions{Status: "new"})
	require.NoError(t, err)
	assert.NotContains(t, db.calls[0].sql, "status")
	assert.Equal(t, []any{"u1", DefaultLimit, 0}, db.calls[1].args)
}

func TestStore_UpdateAndNotFound(t *testing.T) {
	db := &fakeDB{query: rowJSON(`{"id":"r1","reply":"thanks"}`)}
	s := NewStore(db)

	_, err := s.ReplyToReview(context.Background(), "u1", "r1", "thanks")
	require.NoError(t, err)
	assert.Equal(t,
		"WITH upd AS (UPDATE reviews SET reply = $3 WHERE id = $1 AND user_id = $2 RETURNING *) SELECT row_to_json(upd) FROM upd",
		db.calls[0].sql)

	_, err = s.MarkEnquiryRead(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.Contains(t, db.calls[1].sql, "is_read = $3, updated_at = now()")

	_, err = s.ReplyToReview(context.Background(), "u1", "r1", "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Update(context.Background(), Products, "u1", "p1", map[string]any{})
	assert.ErrorIs(t, err, ErrNoFields)

	db.query = func(string, []any) fakeRow { return fakeRow{err: pgx.ErrNoRows} }
	_, err = s.Get(context.Background(), Products, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	db.query = func(string, []any) fakeRow { return fakeRow{err: &pgconn.PgError{Code: "22P02"}} }
	_, err = s.Get(context.Background(), Products, "u1", "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	db.query = func(string, []any) fakeRow { return fakeRow{err: errors.New("conn reset")} }
	_, err = s.Get(context.Background(), Products, "u1", "p1")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	db := &fakeDB{affected: 1}
	s := NewStore(db)

	require.NoError(t, s.Delete(context.Background(), Projects, "u1", "p1"))
	assert.Equal(t, []any{"p1", "u1"}, db.calls[0].args)

	db.affected = 0
	assert.ErrorIs(t, s.Delete(context.Background(), Projects, "u1", "p1"), ErrNotFound)
}

type fixedBalance int

func (b fixedBalance) Balance(context.Context, string) (int, error) { return int(b), nil }

func TestStore_Dashboard(t *testing.T) {
	db := &fakeDB{query: func(sql string, _ []any) fakeRow {
		switch {
		case strings.Contains(sql, "is_read"):
			return fakeRow{val: 2}
		case strings.Contains(sql, "FROM products"):
			return fakeRow{val: 4}
		}
		return fakeRow{val: 1}
	}}

	d, err := NewStore(db).Dashboard(context.Background(), "u1", fixedBalance(90))
	require.NoError(t, err)
	assert.Len(t, d.Counts, 7)
	assert.Equal(t, 4, d.Counts["products"])
	assert.Equal(t, 1, d.Counts["reviews"])
	assert.Equal(t, 2, d.UnreadEnquiries)
	assert.Equal(t, 90, d.CreditBalance)

	db.query = func(string, []any) fakeRow { return fakeRow{err: errors.New("db down")} }
	_, err = NewStore(db).Dashboard(context.Background(), "u1", nil)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	e, err := Lookup("reviews")
	require.NoError(t, err)
	assert.False(t, e.Timestamped)

	_, err = Lookup("invoices")
	assert.ErrorIs(t, err, ErrUnknownTable)
}
