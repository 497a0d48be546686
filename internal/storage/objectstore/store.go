// Package objectstore keeps uploaded and generated files in an
// S3-compatible bucket, or in memory when no bucket is configured.
package objectstore

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrNotFound = errors.New("object not found")

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type Store interface {
	// Put stores data under key. An empty contentType is sniffed from the
	// data.
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	// URL returns a link clients can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// KeyFor builds an object key of the form prefix/parts.../name.ext where
// the extension follows the content type.
func KeyFor(prefix string, data []byte, parts ...string) string {
	elems := append([]string{prefix}, parts...)
	key := path.Join(elems...)
	if path.Ext(key) == "" {
		key += mimetype.Detect(data).Extension()
	}
	return strings.TrimPrefix(key, "/")
}

func detectType(data []byte, contentType string) string {
	if contentType != "" {
		return contentType
	}
	return mimetype.Detect(data).String()
}
