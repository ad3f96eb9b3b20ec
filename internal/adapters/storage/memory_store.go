package storage

import (
	"context"
	"sync"

	"github.com/pookietodo/core/internal/domain/entities"
)

// MemoryStore keeps the document in memory with the same serialization
// discipline as FileStore. Used by tests as a drop-in DocumentStore.
type MemoryStore struct {
	mu  sync.Mutex
	doc *entities.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{doc: entities.NewDocument()}
}

// Load returns a deep copy of the current document.
func (s *MemoryStore) Load(ctx context.Context) (*entities.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), nil
}

// Update mutates a copy and swaps it in only when fn succeeds.
func (s *MemoryStore) Update(ctx context.Context, fn func(doc *entities.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc.Clone()
	if err := fn(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
