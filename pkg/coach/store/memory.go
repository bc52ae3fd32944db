package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process DocumentStore used for development and tests.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]Document
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]Document),
		now:  time.Now,
	}
}

func (m *Memory) Save(_ context.Context, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.StoredAt.IsZero() {
		doc.StoredAt = m.now()
	}
	m.docs[doc.Kind] = doc
	return nil
}

func (m *Memory) Get(_ context.Context, kind string) (Document, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[kind]
	return doc, ok, nil
}

func (m *Memory) Close() error { return nil }
