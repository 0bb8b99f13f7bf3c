package storage

import (
	"context"
	"fmt"
	"strings"

	"united_network/internal/storage"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Blob is a preview image held in memory for the lifetime of its URI.
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PreviewStore hands out short-lived URIs for locally selected files,
// the server-side counterpart of object URLs: Create allocates a URI
// backed by the file bytes, Release frees it. Release must be safe to
// call once per URI from exactly one owner; releasing an unknown URI is
// a no-op.
type PreviewStore interface {
	Create(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Release(ctx context.Context, uri string) error
	Get(ctx context.Context, uri string) (Blob, bool)
	BasePath() string
}

// MemoryPreviewStore keeps blobs in an in-process cache. Entries never
// expire on their own; the owning intake or catalog entry releases them.
type MemoryPreviewStore struct {
	basePath string
	blobs    *cache.Cache
}

func NewMemoryPreviewStore(basePath string) *MemoryPreviewStore {
	if basePath == "" {
		basePath = "/previews"
	}

	return &MemoryPreviewStore{
		basePath: strings.TrimSuffix(basePath, "/"),
		blobs:    cache.New(cache.NoExpiration, 0),
	}
}

func (s *MemoryPreviewStore) Create(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("previewstore: %w: %s", storage.ErrInvalidFileType, contentType)
	}

	id := uuid.New().String()
	s.blobs.Set(id, Blob{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}, cache.NoExpiration)

	return s.basePath + "/" + id, nil
}

func (s *MemoryPreviewStore) Release(_ context.Context, uri string) error {
	id, ok := s.idFromURI(uri)
	if !ok {
		return nil
	}

	s.blobs.Delete(id)
	return nil
}

func (s *MemoryPreviewStore) Get(_ context.Context, uri string) (Blob, bool) {
	id, ok := s.idFromURI(uri)
	if !ok {
		return Blob{}, false
	}

	v, found := s.blobs.Get(id)
	if !found {
		return Blob{}, false
	}

	return v.(Blob), true
}

func (s *MemoryPreviewStore) BasePath() string {
	return s.basePath
}

func (s *MemoryPreviewStore) idFromURI(uri string) (string, bool) {
	id := strings.TrimPrefix(uri, s.basePath+"/")
	if id == "" || id == uri {
		// tolerate a bare id, e.g. from a route parameter
		if uri != "" && !strings.Contains(uri, "/") {
			return uri, true
		}
		return "", false
	}
	return id, true
}
