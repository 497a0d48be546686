package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRow struct {
	vals []any
	err  error
}

func (r userRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case **string:
			if s, ok := r.vals[i].(string); ok {
				*p = &s
			}
		case *time.Time:
			*p = r.vals[i].(time.Time)
		}
	}
	return nil
}

type fakeDB struct {
	sql  string
	args []any
	row  userRow
	err  error
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return f.row
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func storedUser() userRow {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return userRow{vals: []any{"id-1", "uid-1", "a@b.c", "Ana", nil, "Build Co", nil, nil, nil, now, now}}
}

func TestEnsureUser(t *testing.T) {
	db := &fakeDB{}
	repo := NewRepo(db)

	require.NoError(t, repo.EnsureUser(context.Background(), auth.Profile{UserID: "uid-1", Email: "a@b.c"}))
	assert.Contains(t, db.sql, "on conflict (firebase_uid) do update")
	assert.Equal(t, []any{"uid-1", "a@b.c", "", ""}, db.args)

	assert.Error(t, repo.EnsureUser(context.Background(), auth.Profile{}))

	db.err = errors.New("db down")
	assert.Error(t, repo.EnsureUser(context.Background(), auth.Profile{UserID: "uid-1"}))
}

func TestGet(t *testing.T) {
	db := &fakeDB{row: storedUser()}
	repo := NewRepo(db)

	u, err := repo.Get(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, "Build Co", *u.CompanyName)
	assert.Nil(t, u.PhotoURL)

	db.row = userRow{err: pgx.ErrNoRows}
	_, err = repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdate_OnlyTouchesProvidedFields(t *testing.T) {
	db := &fakeDB{row: storedUser()}
	repo := NewRepo(db)

	phone, website := "+94 77 123 4567", ""
	_, err := repo.Update(context.Background(), "uid-1", UpdateUser{Phone: &phone, Website: &website})
	require.NoError(t, err)

	assert.Equal(t, []any{
		"uid-1",
		false, "", // display_name
		false, "", // photo_url
		false, "", // company_name
		true, phone,
		false, "", // address
		true, "",
	}, db.args)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := &fakeDB{row: storedUser()}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetUser(c, "uid-1", "a@b.c")
		c.Next()
	})
	Register(r.Group("/me"), NewRepo(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company_name":"Build Co"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(`{"display_name":"Ana P"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, db.args[1])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	db.row = userRow{err: pgx.ErrNoRows}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
