package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/deepset/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	docID := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		doc := map[string]any{
			"foo":  "bar",
			"flag": true,
			"nested": map[string]any{
				"list": []any{"x", "y"},
			},
		}

		err := store.Save(ctx, docID, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc, loaded)
	})

	t.Run("Loaded documents are copies", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, docID, map[string]any{"k": "v"}))

		first, err := store.Load(ctx, docID)
		require.NoError(t, err)
		first.(map[string]any)["k"] = "mutated"

		second, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "v", second.(map[string]any)["k"])
	})

	t.Run("List Root", func(t *testing.T) {
		id := docID + "-list"
		defer func() { _ = store.Delete(ctx, id) }()

		doc := []any{"a", map[string]any{"b": "c"}}
		require.NoError(t, store.Save(ctx, id, doc))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, doc, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, docID, map[string]any{"k": "v"}))

		err := store.Delete(ctx, docID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := docID + "-1"
		id2 := docID + "-2"
		require.NoError(t, store.Save(ctx, id1, map[string]any{}))
		require.NoError(t, store.Save(ctx, id2, map[string]any{}))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
