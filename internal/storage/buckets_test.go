package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), DefaultBuckets())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestNewStoreCreatesBucketDirs(t *testing.T) {
	root := t.TempDir()
	if _, err := NewStore(root, DefaultBuckets()); err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, b := range DefaultBuckets() {
		info, err := os.Stat(filepath.Join(root, b.Name))
		if err != nil || !info.IsDir() {
			t.Errorf("bucket dir %s missing: %v", b.Name, err)
		}
	}
	// Second init over the same root must not fail.
	if _, err := NewStore(root, DefaultBuckets()); err != nil {
		t.Fatalf("NewStore re-init: %v", err)
	}
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Save("client-logos", "logo.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(path, "client-logos/") {
		t.Errorf("path = %q, want bucket prefix", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("path = %q, want original extension kept", path)
	}

	filename := strings.TrimPrefix(path, "client-logos/")
	full, err := s.Open("client-logos", filename)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("content = %q, want png-bytes", data)
	}
}

func TestSaveValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name        string
		bucket      string
		contentType string
		size        int
		wantErr     error
	}{
		{name: "unknown bucket", bucket: "secrets", contentType: "image/png", size: 10, wantErr: ErrUnknownBucket},
		{name: "disallowed mime", bucket: "client-logos", contentType: "application/pdf", size: 10, wantErr: ErrDisallowedMIME},
		{name: "too large", bucket: "client-logos", contentType: "image/png", size: 2<<20 + 1, wantErr: ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Save(tt.bucket, "x.png", tt.contentType, make([]byte, tt.size))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Save error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"", "../secret", "a/b.png", `a\b.png`, ".."} {
		if _, err := s.Open("client-logos", name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("Open(%q) error = %v, want ErrInvalidFilename", name, err)
		}
	}
	if _, err := s.Open("nope", "x.png"); !errors.Is(err, ErrUnknownBucket) {
		t.Errorf("Open unknown bucket error = %v, want ErrUnknownBucket", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Open("client-logos", "missing.png"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
