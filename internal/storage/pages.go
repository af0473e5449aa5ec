// Package storage keeps uploaded page images in object storage and hands
// out URLs the vision model can fetch.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTooLarge    = errors.New("file too large")
	ErrUnsupported = errors.New("unsupported image type")
	ErrEmpty       = errors.New("empty file")
)

// Store is the object store used for page images.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

var allowedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Upload is a stored page image.
type Upload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// PageUploader validates page images and stores them under
// pages/<uuid>/<name>.
type PageUploader struct {
	store    Store
	ttl      time.Duration
	maxBytes int64
}

func NewPageUploader(store Store, ttl time.Duration, maxBytes int64) *PageUploader {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &PageUploader{store: store, ttl: ttl, maxBytes: maxBytes}
}

// Upload stores one image. The type is sniffed from the content, not taken
// from the client.
func (u *PageUploader) Upload(ctx context.Context, name string, r io.Reader, size int64) (*Upload, error) {
	if size > u.maxBytes {
		return nil, ErrTooLarge
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmpty
	}
	head = head[:n]
	ctype := http.DetectContentType(head)
	ext, ok := allowedTypes[ctype]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ctype)
	}

	key := "pages/" + uuid.NewString() + "/" + cleanName(name, ext)
	body := io.MultiReader(bytes.NewReader(head), r)
	if size <= 0 {
		// unknown size: buffer so the store gets an exact length
		buf, err := io.ReadAll(io.LimitReader(body, u.maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		if int64(len(buf)) > u.maxBytes {
			return nil, ErrTooLarge
		}
		size = int64(len(buf))
		body = bytes.NewReader(buf)
	}
	if err := u.store.Put(ctx, key, body, size, ctype); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	url, err := u.store.PresignedURL(ctx, key, u.ttl)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &Upload{Key: key, URL: url, ContentType: ctype, Size: size}, nil
}

func cleanName(name, ext string) string {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(name, "\\", "/")), path.Ext(name))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "page"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return base + ext
}

// MemoryStore keeps objects in memory. URLs point at memory://<key>.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *MemoryStore) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("object %q not found", key)
	}
	return "memory://" + key, nil
}

// Object returns the stored bytes and content type for key.
func (m *MemoryStore) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	return b, m.types[key], ok
}
