package objectstore

import (
	"context"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject)}
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte, contentType string) (Object, error) {
	ct := detectType(data, contentType)
	cp := append([]byte(nil), data...)

	m.mu.Lock()
	m.objects[key] = memObject{data: cp, contentType: ct}
	m.mu.Unlock()

	return Object{Key: key, URL: "memory://" + key, ContentType: ct, Size: len(cp)}, nil
}

func (m *MemoryStore) URL(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[key]; !ok {
		return "", ErrNotFound
	}
	return "memory://" + key, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Get returns a stored object's bytes and content type.
func (m *MemoryStore) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return o.data, o.contentType, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
