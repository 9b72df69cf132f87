// Package storage is a local-disk file store organized into named buckets
// with per-bucket MIME and size restrictions.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnknownBucket   = errors.New("storage: unknown bucket")
	ErrDisallowedMIME  = errors.New("storage: content type not allowed for bucket")
	ErrFileTooLarge    = errors.New("storage: file exceeds bucket size limit")
	ErrInvalidFilename = errors.New("storage: invalid filename")
)

// Bucket describes one public-read upload area.
type Bucket struct {
	Name         string
	AllowedMIMEs []string
	MaxBytes     int64
}

// DefaultBuckets mirrors the site's three upload areas.
func DefaultBuckets() []Bucket {
	images := []string{"image/png", "image/jpeg", "image/webp", "image/svg+xml"}
	return []Bucket{
		{Name: "portfolio-images", AllowedMIMEs: images, MaxBytes: 10 << 20},
		{Name: "brand-assets", AllowedMIMEs: images, MaxBytes: 5 << 20},
		{Name: "client-logos", AllowedMIMEs: images, MaxBytes: 2 << 20},
	}
}

// Store writes uploads under root/<bucket>/<generated name>.
type Store struct {
	root    string
	buckets map[string]Bucket
}

// NewStore creates every bucket directory idempotently.
func NewStore(root string, buckets []Bucket) (*Store, error) {
	s := &Store{root: root, buckets: make(map[string]Bucket, len(buckets))}
	for _, b := range buckets {
		if err := os.MkdirAll(filepath.Join(root, b.Name), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create bucket %s: %w", b.Name, err)
		}
		s.buckets[b.Name] = b
	}
	return s, nil
}

// Save validates the payload against the bucket's restrictions and writes
// it under a generated name, returning the public path segment
// "<bucket>/<filename>".
func (s *Store) Save(bucket, originalName, contentType string, data []byte) (string, error) {
	b, ok := s.buckets[bucket]
	if !ok {
		return "", ErrUnknownBucket
	}
	if int64(len(data)) > b.MaxBytes {
		return "", ErrFileTooLarge
	}
	allowed := false
	for _, m := range b.AllowedMIMEs {
		if strings.EqualFold(m, contentType) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", ErrDisallowedMIME
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.root, b.Name, name), data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return b.Name + "/" + name, nil
}

// Open resolves a bucket-relative filename for serving. Filenames with
// path separators are rejected to keep reads inside the bucket.
func (s *Store) Open(bucket, filename string) (string, error) {
	if _, ok := s.buckets[bucket]; !ok {
		return "", ErrUnknownBucket
	}
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return "", ErrInvalidFilename
	}
	path := filepath.Join(s.root, bucket, filename)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrInvalidFilename
	}
	return path, nil
}

// Buckets lists the configured bucket names.
func (s *Store) Buckets() []string {
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	return names
}
