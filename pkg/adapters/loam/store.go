// Package loam stores documents as front matter of Loam-managed markdown files,
// so they stay human-editable next to the rest of a Loam repository.
package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

const ext = ".md"

// Store implements ports.DocumentStore on a Loam repository.
type Store struct {
	repo  core.Repository
	typed *loam.TypedRepository[Envelope]
}

// New wraps an initialized Loam repository.
func New(repo core.Repository) *Store {
	return &Store{
		repo:  repo,
		typed: loam.NewTypedRepository[Envelope](repo),
	}
}

// Open initializes a Loam repository at dir without versioning.
func Open(dir string) (*Store, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithVersioning(false),
		loam.WithForceTemp(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo), nil
}

func kindOf(doc any) string {
	switch doc.(type) {
	case map[string]any:
		return "record"
	case []any:
		return "list"
	}
	return "value"
}

// plain converts doc to JSON-decoded values so front matter never holds custom types.
func plain(doc any) (any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Save(ctx context.Context, id string, doc any) error {
	data, err := plain(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", id, err)
	}
	err = s.typed.Save(ctx, &loam.DocumentModel[Envelope]{
		ID:   id + ext,
		Data: Envelope{Document: data, Kind: kindOf(data)},
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", id, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (any, error) {
	doc, err := s.typed.Get(ctx, id)
	if err != nil {
		if exists, listErr := s.exists(ctx, id); listErr == nil && !exists {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	// YAML front matter may decode numbers as ints; normalize like the other stores.
	out, err := plain(doc.Data.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document %s: %w", id, err)
	}
	return out, nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range ids {
		if existing == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	exists, err := s.exists(ctx, id)
	if err != nil || !exists {
		return err
	}
	if err := s.repo.Delete(ctx, id+ext); err != nil {
		return fmt.Errorf("loam delete failed for %s: %w", id, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	docs, err := s.typed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, trimExtension(doc.ID))
	}
	sort.Strings(ids)
	return ids, nil
}

func trimExtension(id string) string {
	if e := filepath.Ext(id); e != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, e))
	}
	return filepath.ToSlash(id)
}
