package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/deepset/pkg/adapters/memory"
	"github.com/aretw0/deepset/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewPIIMiddleware([]string{"password", "ssn"})(underlying)

	ctx := context.Background()
	doc := map[string]any{
		"username":      "jdoe",
		"user_password": "secret123",
		"details": map[string]any{
			"address":    "123 St",
			"ssn_number": "999-99-9999",
		},
		"accounts": []any{
			map[string]any{"password": "p1", "bank": "x"},
		},
	}

	require.NoError(t, secure.Save(ctx, "pii", doc))
	assert.Equal(t, "secret123", doc["user_password"], "caller's document must not be modified")

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"username":      "jdoe",
		"user_password": middleware.Mask,
		"details": map[string]any{
			"address":    "123 St",
			"ssn_number": middleware.Mask,
		},
		"accounts": []any{
			map[string]any{"password": middleware.Mask, "bank": "x"},
		},
	}, stored)
}

func TestChain_EncryptsMaskedDocument(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.Chain(underlying,
		middleware.NewPIIMiddleware([]string{"token"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "c", map[string]any{"token": "abc", "name": "x"}))

	raw, err := underlying.Load(ctx, "c")
	require.NoError(t, err)
	assert.Contains(t, raw, middleware.EnvelopeField)

	loaded, err := store.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"token": middleware.Mask, "name": "x"}, loaded)
}
