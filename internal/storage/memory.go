package storage

import (
	"context"
	"io"
	"sync"
)

// Memory is an in-memory Store used by tests and local development.
// It records every object it receives, keyed exactly as uploaded.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	base    string
}

// NewMemory returns an empty in-memory store.  Its public URLs are
// rooted at the given base address (e.g. "mem://cabin-images").
func NewMemory(base string) *Memory {
	return &Memory{objects: make(map[string][]byte), base: base}
}

func (m *Memory) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = b
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) PublicURL(key string) string {
	if key == "" {
		return m.base
	}
	return m.base + "/" + key
}

// Get returns the stored content for key, for test assertions.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}

// Len reports how many objects are stored.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
