package history

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/DesignIQ-Labs/designiq-backend/internal/storage/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func setup(t *testing.T) (*Service, sqlmock.Sqlmock, *objectstore.MemoryStore) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := objectstore.NewMemoryStore()
	return NewService(NewRepository(db), store, time.Second, "generated"), mock, store
}

func expectInsert(mock sqlmock.Sqlmock, user, tool string) {
	mock.ExpectQuery(`INSERT INTO image_history`).
		WithArgs(sqlmock.AnyArg(), user, tool, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
}

func TestSave_FromURL(t *testing.T) {
	svc, mock, store := setup(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes)
	}))
	defer server.Close()

	expectInsert(mock, "u1", "interior-ai")
	entry, err := svc.Save(context.Background(), SaveRequest{
		UserID: "u1", ToolName: "interior-ai", Prompt: "loft", Image: server.URL + "/out.png",
	})
	require.NoError(t, err)
	assert.Contains(t, entry.ObjectKey, "generated/u1/")
	assert.Contains(t, entry.ObjectKey, ".png")

	data, ct, err := store.Get(entry.ObjectKey)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", ct)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_FromDataURI(t *testing.T) {
	svc, mock, store := setup(t)

	expectInsert(mock, "u1", "upscale-4k")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	_, err := svc.Save(context.Background(), SaveRequest{UserID: "u1", ToolName: "upscale-4k", Image: uri})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	// Bare base64 needs the type spelled out only when ambiguous.
	expectInsert(mock, "u1", "upscale-4k")
	_, err = svc.Save(context.Background(), SaveRequest{UserID: "u1", ToolName: "upscale-4k",
		Image: base64.StdEncoding.EncodeToString(pngBytes), ImageType: ImageTypeBase64})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestSave_Rejects(t *testing.T) {
	svc, _, store := setup(t)
	ctx := context.Background()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer failing.Close()

	cases := map[string]struct {
		req  SaveRequest
		want error
	}{
		"missing tool": {SaveRequest{UserID: "u1", Image: "x"}, ErrMissingFields},
		"bad base64":   {SaveRequest{UserID: "u1", ToolName: "t", Image: "data:image/png;base64,@@@"}, ErrInvalidImage},
		"not an image": {SaveRequest{UserID: "u1", ToolName: "t", Image: base64.StdEncoding.EncodeToString([]byte("hello world"))}, ErrInvalidImage},
		"bad type":     {SaveRequest{UserID: "u1", ToolName: "t", Image: "x", ImageType: "file"}, ErrInvalidImage},
		"download 404": {SaveRequest{UserID: "u1", ToolName: "t", Image: failing.URL}, ErrDownload},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Save(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, store.Len())
}

func TestSave_InsertFailureRemovesObject(t *testing.T) {
	svc, mock, store := setup(t)

	mock.ExpectQuery(`INSERT INTO image_history`).WillReturnError(assert.AnError)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	_, err := svc.Save(context.Background(), SaveRequest{UserID: "u1", ToolName: "t", Image: uri})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, store.Len())
}

func TestListAndDelete(t *testing.T) {
	svc, mock, store := setup(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "generated/u1/a.png", pngBytes, "")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, user_id, tool_name`).
		WithArgs("u1", listLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "tool_name", "prompt", "image_url", "object_key", "created_at"}).
			AddRow("h1", "u1", "interior-ai", nil, "memory://generated/u1/a.png", "generated/u1/a.png", time.Now()))
	entries, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Prompt)

	mock.ExpectQuery(`DELETE FROM image_history`).
		WithArgs("h1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"object_key"}).AddRow("generated/u1/a.png"))
	require.NoError(t, svc.Delete(ctx, "u1", "h1"))
	assert.Zero(t, store.Len())

	mock.ExpectQuery(`DELETE FROM image_history`).
		WithArgs("h1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"object_key"}))
	assert.ErrorIs(t, svc.Delete(ctx, "u1", "h1"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
