package memory

import (
	"context"
	"io"
	"sync"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/pkg/mediastore"
)

// MediaStore keeps uploaded objects in memory.
type MediaStore struct {
	mu         sync.Mutex
	baseURL    string
	keys       *mediastore.KeyGenerator
	objects    map[string][]byte
	failUpload func(file domain.MediaFile) error
}

func NewMediaStore(baseURL string) (*MediaStore, error) {
	keys, err := mediastore.NewKeyGenerator("media")
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = "memory://media"
	}
	return &MediaStore{baseURL: baseURL, keys: keys, objects: make(map[string][]byte)}, nil
}

func (m *MediaStore) Upload(_ context.Context, file domain.MediaFile) (*domain.UploadedMedia, error) {
	m.mu.Lock()
	fail := m.failUpload
	m.mu.Unlock()
	if fail != nil {
		if err := fail(file); err != nil {
			return nil, err
		}
	}

	var data []byte
	if file.Body != nil {
		var err error
		if data, err = io.ReadAll(file.Body); err != nil {
			return nil, err
		}
	}

	key := m.keys.Key(file.Name, file.ContentType)
	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()
	return &domain.UploadedMedia{SecureURL: m.baseURL + "/" + key, PublicID: key}, nil
}

func (m *MediaStore) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	delete(m.objects, publicID)
	m.mu.Unlock()
	return nil
}

func (m *MediaStore) Has(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[publicID]
	return ok
}

func (m *MediaStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// SetFailUpload installs fn to be consulted before every upload; a non-nil
// result fails the upload.
func (m *MediaStore) SetFailUpload(fn func(file domain.MediaFile) error) {
	m.mu.Lock()
	m.failUpload = fn
	m.mu.Unlock()
}
