// Package history archives images produced by the AI tools so users can
// find them again.
package history

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/DesignIQ-Labs/designiq-backend/internal/storage/objectstore"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	ImageTypeURL    = "url"
	ImageTypeBase64 = "base64"

	maxImageBytes = 25 << 20
	listLimit     = 200
)

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrDownload      = errors.New("failed to download image")
	ErrMissingFields = errors.New("tool name and image are required")
)

type SaveRequest struct {
	UserID   string `json:"-"`
	ToolName string `json:"tool_name"`
	Prompt   string `json:"prompt"`
	// Image is an http(s) URL or base64 data, with or without a data: prefix.
	Image string `json:"image"`
	// ImageType is "url" or "base64"; inferred from Image when empty.
	ImageType string `json:"image_type"`
}

type Service struct {
	repo   *Repository
	store  objectstore.Store
	client *http.Client
	prefix string
}

func NewService(repo *Repository, store objectstore.Store, fetchTimeout time.Duration, prefix string) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &Service{
		repo:   repo,
		store:  store,
		client: &http.Client{Timeout: fetchTimeout},
		prefix: prefix,
	}
}

// Save copies the image into object storage and records it.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*Entry, error) {
	logger := logging.NewLogger(ctx)

	if strings.TrimSpace(req.ToolName) == "" || strings.TrimSpace(req.Image) == "" {
		return nil, ErrMissingFields
	}

	data, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") && !strings.HasPrefix(mt.String(), "video/") {
		return nil, fmt.Errorf("%w: content is %s", ErrInvalidImage, mt.String())
	}

	id := uuid.New().String()
	key := objectstore.KeyFor(s.prefix, data, req.UserID, id)
	obj, err := s.store.Put(ctx, key, data, mt.String())
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:        id,
		UserID:    req.UserID,
		ToolName:  req.ToolName,
		Prompt:    req.Prompt,
		ImageURL:  obj.URL,
		ObjectKey: obj.Key,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			logger.LogError("history_cleanup", derr)
		}
		return nil, err
	}

	logger.LogInfof("history_save", "user_id=%s tool=%s size=%s key=%s",
		req.UserID, req.ToolName, humanize.Bytes(uint64(len(data))), key)
	return entry, nil
}

// Record saves a finished generation's output URL.
func (s *Service) Record(ctx context.Context, userID, tool, prompt, source string) error {
	_, err := s.Save(ctx, SaveRequest{UserID: userID, ToolName: tool, Prompt: prompt, Image: source})
	return err
}

func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.repo.List(ctx, userID, listLimit)
}

// Delete removes the record; the stored object is removed best effort.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	key, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if key != "" {
		if err := s.store.Delete(ctx, key); err != nil {
			logging.NewLogger(ctx).LogError("history_delete_object", err)
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, req SaveRequest) ([]byte, error) {
	image := strings.TrimSpace(req.Image)
	kind := req.ImageType
	if kind == "" {
		kind = ImageTypeBase64
		if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
			kind = ImageTypeURL
		}
	}

	switch kind {
	case ImageTypeURL:
		return s.download(ctx, image)
	case ImageTypeBase64:
		return decodeBase64(image)
	}
	return nil, fmt.Errorf("%w: image_type must be url or base64", ErrInvalidImage)
}

func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDownload)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%w: larger than %s", ErrInvalidImage, humanize.Bytes(maxImageBytes))
	}
	return data, nil
}

func decodeBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: malformed data URI", ErrInvalidImage)
		}
		s = s[comma+1:]
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty base64 image", ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return data, nil
}
