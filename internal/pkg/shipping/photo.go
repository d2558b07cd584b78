package shipping

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bluezpowerhouse/autoshop/internal/pkg/env"
)

// maxPhotoBytes caps proof-of-delivery downloads; carriers send small JPEGs.
const maxPhotoBytes = 20 << 20

// PhotoFetcher downloads a proof-of-delivery photo and stores it locally.
// Implementations return the stored filename, or an error the caller is
// expected to treat as non-fatal.
type PhotoFetcher interface {
	FetchAndStore(ctx context.Context, photoURL, trackingNumber string) (string, error)
}

// LocalPhotoStore fetches photos over HTTP and writes them under BaseDir.
type LocalPhotoStore struct {
	BaseDir string
	Client  *http.Client
}

func NewLocalPhotoStore(baseDir string) *LocalPhotoStore {
	return &LocalPhotoStore{
		BaseDir: baseDir,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func NewLocalPhotoStoreFromEnv() *LocalPhotoStore {
	return NewLocalPhotoStore(env.GetEnv("UPLOAD_DIR", "./uploads/tracking"))
}

// FetchAndStore downloads photoURL and writes it as
// {sanitized tracking number}_{timestamp}{ext} under BaseDir. An empty URL
// is a no-op. The extension comes from the URL path when recognizable,
// otherwise from the response content type (default .jpg).
func (s *LocalPhotoStore) FetchAndStore(ctx context.Context, photoURL, trackingNumber string) (string, error) {
	if photoURL == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return "", fmt.Errorf("create photo request failed: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("photo download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("photo download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return "", fmt.Errorf("read photo body failed: %w", err)
	}

	ext := photoExtension(photoURL, resp.Header.Get("Content-Type"))
	filename := fmt.Sprintf("%s_%s%s",
		sanitizeTrackingNumber(trackingNumber),
		time.Now().UTC().Format("20060102_150405"),
		ext,
	)

	if err := os.MkdirAll(s.BaseDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir failed: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.BaseDir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("store photo failed: %w", err)
	}

	return filename, nil
}

var photoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func photoExtension(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := strings.ToLower(filepath.Ext(u.Path)); photoExts[ext] {
			return ext
		}
	}

	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

// sanitizeTrackingNumber strips everything that is not safe in a filename,
// so a hostile tracking number cannot traverse out of the upload dir.
func sanitizeTrackingNumber(trackingNumber string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, trackingNumber)
	if sanitized == "" {
		return "unknown"
	}
	return sanitized
}
