package repository

import (
	"context"
	"sync"
)

// memoryStorageRepository lives only as long as the process, matching a
// session that is not persisted.
type memoryStorageRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorageRepository() StorageRepository {
	return &memoryStorageRepository{values: make(map[string]string)}
}

func (r *memoryStorageRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	return value, ok, nil
}

func (r *memoryStorageRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = value
	return nil
}

func (r *memoryStorageRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, key)
	return nil
}
