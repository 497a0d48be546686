package http

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DesignIQ-Labs/designiq-backend/internal/auth"
	"github.com/DesignIQ-Labs/designiq-backend/internal/history"
	"github.com/DesignIQ-Labs/designiq-backend/internal/storage/objectstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func setup(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := history.NewService(history.NewRepository(db), objectstore.NewMemoryStore(), time.Second, "generated")
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetUser(c, "u1", "")
		c.Next()
	})
	New(svc).Register(r.Group("/api/v1/history"))
	return r, mock
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSave(t *testing.T) {
	r, mock := setup(t)

	mock.ExpectQuery(`INSERT INTO image_history`).
		WithArgs(sqlmock.AnyArg(), "u1", "interior-ai", "loft", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	body := `{"tool_name":"interior-ai","prompt":"loft","image":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(pngBytes) + `"}`
	w := do(r, http.MethodPost, "/api/v1/history", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"tool_name":"interior-ai"`)

	w = do(r, http.MethodPost, "/api/v1/history", `{"image":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAndDelete(t *testing.T) {
	r, mock := setup(t)

	mock.ExpectQuery(`SELECT id, user_id, tool_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tool_name", "prompt", "image_url", "object_key", "created_at"}).
			AddRow("h1", "u1", "interior-ai", "loft", "memory://a.png", "a.png", time.Now()))
	w := do(r, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	mock.ExpectQuery(`DELETE FROM image_history`).WithArgs("h1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"object_key"}))
	w = do(r, http.MethodDelete, "/api/v1/history/h1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	mock.ExpectQuery(`SELECT id, user_id, tool_name`).WillReturnError(assert.AnError)
	w = do(r, http.MethodGet, "/api/v1/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
