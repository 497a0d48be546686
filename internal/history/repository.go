package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("image history not found")

// Entry is one saved image.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ToolName  string    `json:"tool_name"`
	Prompt    string    `json:"prompt,omitempty"`
	ImageURL  string    `json:"image_url"`
	ObjectKey string    `json:"object_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	var prompt sql.NullString
	if e.Prompt != "" {
		prompt = sql.NullString{String: e.Prompt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO image_history (id, user_id, tool_name, prompt, image_url, object_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, e.ID, e.UserID, e.ToolName, prompt, e.ImageURL, e.ObjectKey).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save image history: %w", err)
	}
	return nil
}

// List returns the user's images, newest first.
func (r *Repository) List(ctx context.Context, userID string, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, tool_name, prompt, image_url, object_key, created_at
		FROM image_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list image history: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var prompt sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.ToolName, &prompt, &e.ImageURL, &e.ObjectKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image history: %w", err)
		}
		e.Prompt = prompt.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the entry and returns its object key.
func (r *Repository) Delete(ctx context.Context, userID, id string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM image_history
		WHERE id = $1 AND user_id = $2
		RETURNING object_key
	`, id, userID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete image history: %w", err)
	}
	return key, nil
}
