package container_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_IdentityKeys(t *testing.T) {
	m := container.NewMap()
	k1 := []any{"x"}
	k2 := []any{"x"}

	require.NoError(t, m.Store(k1, "first"))
	require.NoError(t, m.Store(k2, "second"))

	v, ok := m.Load(k1)
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = m.Load(k2)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 2, m.Len())
}

func TestMap_RejectsZeroCapacityKeys(t *testing.T) {
	m := container.NewMap()

	err := m.Store([]any{}, "v")

	assert.ErrorIs(t, err, domain.ErrInvalidKey)
	assert.Equal(t, 0, m.Len())
}

func TestMap_StoreKeepsPosition(t *testing.T) {
	m := container.NewMap()
	require.NoError(t, m.Store("a", 1))
	require.NoError(t, m.Store("b", 2))
	require.NoError(t, m.Store("a", 3))

	var keys []any
	for k := range m.All() {
		keys = append(keys, k)
	}
	assert.Equal(t, []any{"a", "b"}, keys)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
}

func TestMap_MarshalJSON(t *testing.T) {
	t.Run("string keys", func(t *testing.T) {
		m := container.NewMap()
		require.NoError(t, m.Store("z", 1))
		require.NoError(t, m.Store("a", "x"))

		b, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, `{"z":1,"a":"x"}`, string(b))
	})

	t.Run("mixed keys", func(t *testing.T) {
		m := container.NewMap()
		require.NoError(t, m.Store("a", 1))
		require.NoError(t, m.Store(7, true))

		b, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `[["a",1],[7,true]]`, string(b))
	})
}
