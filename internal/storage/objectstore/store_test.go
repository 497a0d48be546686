package objectstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/DesignIQ-Labs/designiq-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "generated/u1/abc.png", KeyFor("generated", pngBytes, "u1", "abc"))
	assert.Equal(t, "u1/abc.jpg", KeyFor("", pngBytes, "u1", "abc.jpg"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	obj, err := m.Put(ctx, "a/b.png", pngBytes, "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, len(pngBytes), obj.Size)

	data, ct, err := m.Get("a/b.png")
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", ct)

	url, err := m.URL(ctx, "a/b.png")
	require.NoError(t, err)
	assert.Equal(t, "memory://a/b.png", url)

	require.NoError(t, m.Delete(ctx, "a/b.png"))
	_, err = m.URL(ctx, "a/b.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

type s3Stub struct {
	mu       sync.Mutex
	requests []string
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()
	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func newS3(t *testing.T, publicBase string) (*S3Store, *s3Stub) {
	stub := &s3Stub{}
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	store, err := NewS3Store(context.Background(), config.StorageConfig{
		Bucket:          "designs",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PublicBaseURL:   publicBase,
	})
	require.NoError(t, err)
	return store, stub
}

func TestS3Store_PutAndDelete(t *testing.T) {
	store, stub := newS3(t, "https://cdn.example.com/")
	ctx := context.Background()

	obj, err := store.Put(ctx, "generated/u1/x.png", pngBytes, "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/generated/u1/x.png", obj.URL)
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, store.Delete(ctx, "generated/u1/x.png"))

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, []string{
		"PUT /designs/generated/u1/x.png",
		"DELETE /designs/generated/u1/x.png",
	}, stub.requests)
}

func TestS3Store_PresignsWithoutPublicBase(t *testing.T) {
	store, _ := newS3(t, "")

	url, err := store.URL(context.Background(), "generated/u1/x.png")
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "/designs/generated/u1/x.png"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=3600")
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.StorageConfig{})
	assert.Error(t, err)
}
