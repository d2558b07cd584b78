package shipping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalPhotoStoreFetchAndStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	store := NewLocalPhotoStore(t.TempDir())

	filename, err := store.FetchAndStore(context.Background(), server.URL+"/pod.jpg", "1Z999AA1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.HasPrefix(filename, "1Z999AA1_") || !strings.HasSuffix(filename, ".jpg") {
		t.Fatalf("unexpected filename %q", filename)
	}

	data, err := os.ReadFile(filepath.Join(store.BaseDir, filename))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("stored content = %q", data)
	}
}

func TestLocalPhotoStoreFetchAndStore_ContentTypeExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	store := NewLocalPhotoStore(t.TempDir())

	// No recognizable extension in the URL path.
	filename, err := store.FetchAndStore(context.Background(), server.URL+"/photo", "TN1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.HasSuffix(filename, ".png") {
		t.Fatalf("expected .png from content type, got %q", filename)
	}
}

func TestLocalPhotoStoreFetchAndStore_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := NewLocalPhotoStore(t.TempDir())

	if _, err := store.FetchAndStore(context.Background(), server.URL+"/gone.jpg", "TN1"); err == nil {
		t.Fatalf("expected error for 404 response")
	}

	entries, err := os.ReadDir(store.BaseDir)
	if err == nil && len(entries) != 0 {
		t.Fatalf("failed download must not leave files behind")
	}
}

func TestLocalPhotoStoreFetchAndStore_EmptyURL(t *testing.T) {
	store := NewLocalPhotoStore(t.TempDir())

	filename, err := store.FetchAndStore(context.Background(), "", "TN1")
	if err != nil {
		t.Fatalf("empty url must be a no-op, got %v", err)
	}
	if filename != "" {
		t.Fatalf("empty url must yield empty filename, got %q", filename)
	}
}

func TestLocalPhotoStoreFetchAndStore_Unreachable(t *testing.T) {
	store := NewLocalPhotoStore(t.TempDir())

	if _, err := store.FetchAndStore(context.Background(), "http://127.0.0.1:1/pod.jpg", "TN1"); err == nil {
		t.Fatalf("expected error for unreachable host")
	}
}

func TestSanitizeTrackingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1Z999AA10123456784", want: "1Z999AA10123456784"},
		{in: "../../etc/passwd", want: "etcpasswd"},
		{in: "TN 001/ABC", want: "TN001ABC"},
		{in: "with-dash_and_underscore", want: "with-dash_and_underscore"},
		{in: "!!!", want: "unknown"},
	}
	for _, tt := range tests {
		if got := sanitizeTrackingNumber(tt.in); got != tt.want {
			t.Fatalf("sanitizeTrackingNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
