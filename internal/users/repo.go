package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUserNotFound = errors.New("user not found")

// DB is the subset of *pgxpool.Pool the repo needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type User struct {
	ID          string    `json:"id"`
	FirebaseUID string    `json:"firebase_uid"`
	Email       *string   `json:"email,omitempty"`
	DisplayName *string   `json:"display_name,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	CompanyName *string   `json:"company_name,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Website     *string   `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpdateUser struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
	CompanyName *string `json:"company_name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Website     *string `json:"website"`
}

type Repo struct {
	db DB
}

func NewRepo(db DB) *Repo {
	return &Repo{db: db}
}

const userColumns = `id::text, firebase_uid, email, display_name, photo_url, company_name, phone, address, website, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.DisplayName, &u.PhotoURL,
		&u.CompanyName, &u.Phone, &u.Address, &u.Website, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureUser upserts the signed-in user. Blank token claims never
// overwrite stored values.
func (r *Repo) EnsureUser(ctx context.Context, p auth.Profile) error {
	if p.UserID == "" {
		return fmt.Errorf("firebase_uid required")
	}

	const q = `
insert into users (firebase_uid, email, display_name, photo_url, updated_at)
values ($1, nullif($2,''), nullif($3,''), nullif($4,''), now())
on conflict (firebase_uid) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(users.display_name, excluded.display_name),
  photo_url = coalesce(users.photo_url, excluded.photo_url),
  updated_at = now()
`
	if _, err := r.db.Exec(ctx, q, p.UserID, p.Email, p.DisplayName, p.PhotoURL); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, firebaseUID string) (*User, error) {
	q := `select ` + userColumns + ` from users where firebase_uid = $1`
	u, err := scanUser(r.db.QueryRow(ctx, q, firebaseUID))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, err
}

// Update sets the non-nil fields. An empty string clears a field.
func (r *Repo) Update(ctx context.Context, firebaseUID string, in UpdateUser) (*User, error) {
	q := `
update users set
  display_name = case when $2::boolean then nullif($3,'') else display_name end,
  photo_url    = case when $4::boolean then nullif($5,'') else photo_url end,
  company_name = case when $6::boolean then nullif($7,'') else company_name end,
  phone        = case when $8::boolean then nullif($9,'') else phone end,
  address      = case when $10::boolean then nullif($11,'') else address end,
  website      = case when $12::boolean then nullif($13,'') else website end,
  updated_at   = now()
where firebase_uid = $1
returning ` + userColumns

	args := []any{firebaseUID}
	for _, f := range []*string{in.DisplayName, in.PhotoURL, in.CompanyName, in.Phone, in.Address, in.Website} {
		args = append(args, f != nil, deref(f))
	}

	u, err := scanUser(r.db.QueryRow(ctx, q, args...))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
