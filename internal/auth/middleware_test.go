package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]*fbauth.Token

func (s stubVerifier) VerifyIDToken(_ context.Context, token string) (*fbauth.Token, error) {
	t, ok := s[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return t, nil
}

type recordingUsers struct {
	seen []Profile
	err  error
}

func (r *recordingUsers) EnsureUser(_ context.Context, p Profile) error {
	r.seen = append(r.seen, p)
	return r.err
}

func newRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(opts))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "email": Email(c)})
	})
	return r
}

func get(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_ValidToken(t *testing.T) {
	users := &recordingUsers{}
	r := newRouter(Options{
		Verifier: stubVerifier{"good": {UID: "uid-1", Claims: map[string]interface{}{"email": "a@b.c", "name": "Ana"}}},
		Users:    users,
	})

	w := get(r, map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"uid-1","email":"a@b.c"}`, w.Body.String())
	require.Len(t, users.seen, 1)
	assert.Equal(t, "Ana", users.seen[0].DisplayName)
}

func TestMiddleware_Rejects(t *testing.T) {
	r := newRouter(Options{Verifier: stubVerifier{}})

	assert.Equal(t, http.StatusUnauthorized, get(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"Authorization": "Bearer nope"}).Code)
	// The dev header is ignored unless enabled.
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"X-User-Id": "dev"}).Code)
}

func TestMiddleware_DevUser(t *testing.T) {
	r := newRouter(Options{AllowDevUser: true})

	w := get(r, map[string]string{"X-User-Id": " dev-1 "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"dev-1"`)

	// A token still needs a verifier.
	assert.Equal(t, http.StatusUnauthorized, get(r, map[string]string{"Authorization": "Bearer x"}).Code)
}

func TestMiddleware_UserSyncFailure(t *testing.T) {
	r := newRouter(Options{AllowDevUser: true, Users: &recordingUsers{err: errors.New("db down")}})
	assert.Equal(t, http.StatusInternalServerError, get(r, map[string]string{"X-User-Id": "dev"}).Code)
}
