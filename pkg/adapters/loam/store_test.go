package loam_test

import (
	"context"
	"testing"

	"github.com/aretw0/deepset/internal/testutils"
	"github.com/aretw0/deepset/pkg/adapters/loam"
	"github.com/aretw0/deepset/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoamStore_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ports.RunDocumentStoreContract(t, loam.New(repo))
}

func TestLoamStore_NormalizesNumbers(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	store := loam.New(repo)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "cfg", map[string]any{"port": 8080}))

	doc, err := store.Load(ctx, "cfg")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"port": 8080.0}, doc)
}
