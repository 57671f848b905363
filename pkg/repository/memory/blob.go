package memory

import (
	"context"
	"sync"

	"github.com/memora-app/memora/pkg/domain/interfaces"
)

// BlobStorage is an in-memory BlobStorage for development and tests
type BlobStorage struct {
	mu      sync.RWMutex
	objects map[string]blobObject
}

type blobObject struct {
	contentType string
	data        []byte
}

var _ interfaces.BlobStorage = (*BlobStorage)(nil)

// NewBlobStorage creates an empty in-memory blob storage
func NewBlobStorage() *BlobStorage {
	return &BlobStorage{
		objects: make(map[string]blobObject),
	}
}

func (b *BlobStorage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.objects[key] = blobObject{contentType: contentType, data: stored}
	return "memory://" + key, nil
}

func (b *BlobStorage) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, key)
	return nil
}

func (b *BlobStorage) Close() error {
	return nil
}

// Get returns an object payload and whether it exists
func (b *BlobStorage) Get(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, ok := b.objects[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, true
}

// Len returns the number of stored objects
func (b *BlobStorage) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
