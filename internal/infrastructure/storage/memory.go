package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/agency/backend/internal/domain/shared"
)

var _ shared.ObjectStorage = (*MemoryObjectStorage)(nil)

// Object is a stored file held by MemoryObjectStorage
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryObjectStorage keeps objects in process memory.
// Use it for development and tests when no S3 endpoint is configured.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]Object

	// BaseURL is the base URL for generated download links.
	// Defaults to "https://storage.example.com" if not set
	BaseURL string
	Bucket  string
	TTL     time.Duration
	now     func() time.Time
}

// NewMemoryObjectStorage creates a new MemoryObjectStorage for bucket
func NewMemoryObjectStorage(bucket string) *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string]Object),
		BaseURL: "https://storage.example.com",
		Bucket:  bucket,
		TTL:     15 * time.Minute,
		now:     time.Now,
	}
}

// Upload stores body under key
func (s *MemoryObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}
	if size > 0 && int64(buf.Len()) != size {
		return fmt.Errorf("upload size mismatch: declared %d, read %d", size, buf.Len())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{ContentType: contentType, Data: buf.Bytes()}
	return nil
}

// DownloadURL returns a fake signed URL for an existing key
func (s *MemoryObjectStorage) DownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", time.Time{}, shared.ErrNotFound
	}

	expiresAt := s.now().Add(s.TTL)
	u := s.BaseURL + "/" + s.Bucket + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}

// Delete removes key; missing keys are ignored
func (s *MemoryObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Get returns a stored object (for testing)
func (s *MemoryObjectStorage) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key]
	return o, ok
}

// Keys returns all stored keys in sorted order
func (s *MemoryObjectStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
