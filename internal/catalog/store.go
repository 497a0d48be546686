package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

type ListOptions struct {
	Status string
	Limit  int
	Offset int
}

func (o ListOptions) normalized() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Create inserts a row owned by userID and returns it as JSON.
func (s *Store) Create(ctx context.Context, e *Entity, userID string, fields map[string]any) (json.RawMessage, error) {
	values, err := e.prepare(fields, true)
	if err != nil {
		return nil, err
	}

	cols := []string{"user_id"}
	holders := []string{"$1"}
	args := []any{userID}
	for _, col := range e.Columns {
		v, ok := values[col.Name]
		if !ok {
			continue
		}
		args = append(args, v)
		cols = append(cols, col.Name)
		holders = append(holders, col.Kind.placeholder(len(args)))
	}

	q := fmt.Sprintf(
		`WITH ins AS (INSERT INTO %s (%s) VALUES (%s) RETURNING *) SELECT row_to_json(ins) FROM ins`,
		e.Table, strings.Join(cols, ", "), strings.Join(holders, ", "),
	)
	var raw []byte
	if err := s.db.QueryRow(ctx, q, args...).Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", e.Name, err)
	}
	return raw, nil
}

// Get returns one row of the user's collection.
func (s *Store) Get(ctx context.Context, e *Entity, userID, id string) (json.RawMessage, error) {
	q := fmt.Sprintf(`SELECT row_to_json(t) FROM %s t WHERE t.id = $1 AND t.user_id = $2`, e.Table)
	var raw []byte
	if err := s.db.QueryRow(ctx, q, id, userID).Scan(&raw); err != nil {
		return nil, notFound(err, "failed to get "+e.Name)
	}
	return raw, nil
}

// List returns a page of the user's rows, newest first, with the total
// number of rows matching the filter.
func (s *Store) List(ctx context.Context, e *Entity, userID string, opts ListOptions) (json.RawMessage, int, error) {
	opts = opts.normalized()

	where := "user_id = $1"
	args := []any{userID}
	if opts.Status != "" && e.HasStatus {
		args = append(args, opts.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := s.db.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s`, e.Table, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", e.Name, err)
	}

	q := fmt.Sprintf(
		`SELECT COALESCE(json_agg(t), '[]'::json) FROM (SELECT * FROM %s WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d) t`,
		e.Table, where, len(args)+1, len(args)+2,
	)
	args = append(args, opts.Limit, opts.Offset)

	var raw []byte
	if err := s.db.QueryRow(ctx, q, args...).Scan(&raw); err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", e.Name, err)
	}
	return raw, total, nil
}

// Update applies a partial update and returns the updated row.
func (s *Store) Update(ctx context.Context, e *Entity, userID, id string, fields map[string]any) (json.RawMessage, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	values, err := e.prepare(fields, false)
	if err != nil {
		return nil, err
	}

	args := []any{id, userID}
	var sets []string
	for _, col := range e.Columns {
		v, ok := values[col.Name]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, col.Name+" = "+col.Kind.placeholder(len(args)))
	}
	if e.Timestamped {
		sets = append(sets, "updated_at = now()")
	}

	q := fmt.Sprintf(
		`WITH upd AS (UPDATE %s SET %s WHERE id = $1 AND user_id = $2 RETURNING *) SELECT row_to_json(upd) FROM upd`,
		e.Table, strings.Join(sets, ", "),
	)
	var raw []byte
	if err := s.db.QueryRow(ctx, q, args...).Scan(&raw); err != nil {
		return nil, notFound(err, "failed to update "+e.Name)
	}
	return raw, nil
}

func (s *Store) Delete(ctx context.Context, e *Entity, userID, id string) error {
	tag, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, e.Table), id, userID)
	if err != nil {
		return notFound(err, "failed to delete "+e.Name)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows the user owns in e.
func (s *Store) Count(ctx context.Context, e *Entity, userID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s WHERE user_id = $1`, e.Table), userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", e.Name, err)
	}
	return n, nil
}

func (s *Store) CountUnreadEnquiries(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT count(*) FROM enquiries WHERE user_id = $1 AND NOT COALESCE(is_read, false)`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread enquiries: %w", err)
	}
	return n, nil
}

func (s *Store) MarkEnquiryRead(ctx context.Context, userID, id string) (json.RawMessage, error) {
	return s.Update(ctx, Enquiries, userID, id, map[string]any{"is_read": true})
}

func (s *Store) ReplyToReview(ctx context.Context, userID, id, reply string) (json.RawMessage, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("%w: reply is required", ErrValidation)
	}
	return s.Update(ctx, Reviews, userID, id, map[string]any{"reply": reply})
}

// notFound maps a missing row, or an id that is not a valid uuid, to
// ErrNotFound.
func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
