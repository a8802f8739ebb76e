package ports

import "context"

// DocumentStore persists JSON-compatible documents: maps, slices, strings,
// numbers, booleans and nil.
type DocumentStore interface {
	// Save persists doc under id, replacing any previous version.
	Save(ctx context.Context, id string, doc any) error

	// Load retrieves the document stored under id.
	// Returns domain.ErrDocumentNotFound if it does not exist.
	Load(ctx context.Context, id string) (any, error)

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored documents.
	List(ctx context.Context) ([]string, error)
}
