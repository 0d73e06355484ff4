package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestNewUnconfigured(t *testing.T) {
	tests := []Config{
		{},
		{Endpoint: "http://s3.local", AccessKey: "a", SecretKey: "b"},
		{Endpoint: "http://s3.local", Bucket: "x"},
	}
	for _, cfg := range tests {
		c, err := New(cfg)
		if err != nil || c != nil {
			t.Errorf("New(%+v) = %v, %v; want nil, nil", cfg, c, err)
		}
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "path style",
			cfg:  Config{Endpoint: "https://fsn1.example.com/", AccessKey: "a", SecretKey: "b", Bucket: "play"},
			want: "https://fsn1.example.com/play/exports/x.html",
		},
		{
			name: "public url",
			cfg:  Config{Endpoint: "https://fsn1.example.com", AccessKey: "a", SecretKey: "b", Bucket: "play", PublicURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/exports/x.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if err != nil || c == nil {
				t.Fatalf("New: %v", err)
			}
			got := c.FileURL("exports/x.html")
			if got != tt.want {
				t.Errorf("FileURL: got %q, want %q", got, tt.want)
			}
		})
	}
}

// fakeS3 accepts PutObject requests and records them.
type fakeS3 struct {
	mu          sync.Mutex
	method      string
	path        string
	contentType string
	body        string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.method, f.path, f.contentType, f.body = r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)
	f.mu.Unlock()
	w.Header().Set("ETag", `"abc"`)
	w.WriteHeader(http.StatusOK)
}

func TestPublishExport(t *testing.T) {
	fake := &fakeS3{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c, err := New(Config{Endpoint: srv.URL, AccessKey: "key", SecretKey: "secret", Bucket: "play"})
	if err != nil || c == nil {
		t.Fatalf("New: %v", err)
	}

	doc := "<!DOCTYPE html><html><body>Hi</body></html>"
	url, err := c.PublishExport(context.Background(), doc)
	if err != nil {
		t.Fatalf("PublishExport: %v", err)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()

	if fake.method != http.MethodPut {
		t.Errorf("method: got %s", fake.method)
	}
	if !strings.HasPrefix(fake.path, "/play/"+ExportPrefix) || !strings.HasSuffix(fake.path, ".html") {
		t.Errorf("path: got %s", fake.path)
	}
	if fake.contentType != "text/html; charset=utf-8" {
		t.Errorf("content type: got %q", fake.contentType)
	}
	if !strings.Contains(fake.body, doc) {
		t.Errorf("body: got %q", fake.body)
	}
	if url != srv.URL+fake.path {
		t.Errorf("url: got %q, want %q", url, srv.URL+fake.path)
	}
}
