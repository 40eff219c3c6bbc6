package media

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps uploaded objects in memory. It backs local development
// when no bucket is configured and doubles as a test fake.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Failure injection for tests.
	UploadErr error
	DeleteErr error

	Uploads []string
	Deletes []string
}

// NewMemoryStore returns an empty in-memory media store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Upload reads the content into memory under a random key.
func (m *MemoryStore) Upload(ctx context.Context, filename, contentType string, content io.Reader) (*UploadResult, error) {
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}

	key := uuid.NewString()

	m.mu.Lock()
	m.objects[key] = data
	m.Uploads = append(m.Uploads, key)
	m.mu.Unlock()

	return &UploadResult{
		URL: "memory://" + key,
		Key: key,
	}, nil
}

// Delete removes the object if present. Deleting an unknown key is not an error.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	delete(m.objects, key)
	m.Deletes = append(m.Deletes, key)
	m.mu.Unlock()
	return nil
}

// Has reports whether an object with the given key is stored.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
