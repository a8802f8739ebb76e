package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/deepset/pkg/domain"
)

// Store implements ports.DocumentStore in memory.
// Documents are kept encoded so callers never share references with the store.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// NewFromDocuments creates a store pre-populated with docs.
func NewFromDocuments(docs map[string]any) (*Store, error) {
	s := NewStore()
	for id, doc := range docs {
		if err := s.Save(context.Background(), id, doc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save persists the document in memory.
func (s *Store) Save(ctx context.Context, id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = b
	return nil
}

// Load retrieves a fresh copy of the document.
func (s *Store) Load(ctx context.Context, id string) (any, error) {
	s.mu.RLock()
	b, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}

	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes the document.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored document IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
