package container_test

import (
	"testing"

	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	name string
}

func TestWeakMap_StoreLoad(t *testing.T) {
	wm := container.NewWeakMap[node]()
	k := &node{name: "k"}

	require.NoError(t, wm.Store(k, "v"))

	v, ok := wm.Load(k)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = wm.Load(&node{name: "k"})
	assert.False(t, ok)

	assert.True(t, wm.Delete(k))
	_, ok = wm.Load(k)
	assert.False(t, ok)
}

func TestWeakMap_RejectsForeignKeys(t *testing.T) {
	wm := container.NewWeakMap[node]()

	assert.ErrorIs(t, wm.Store("k", 1), domain.ErrInvalidKey)
	assert.ErrorIs(t, wm.Store((*node)(nil), 1), domain.ErrInvalidKey)
}

func TestWeakSet_Membership(t *testing.T) {
	ws := container.NewWeakSet[node]()
	n := &node{name: "n"}

	require.NoError(t, ws.Add(n))
	assert.True(t, ws.Has(n))
	assert.False(t, ws.Has(&node{}))

	_, enumerable := any(ws).(container.Enumerable)
	assert.False(t, enumerable)

	assert.True(t, ws.Delete(n))
	assert.False(t, ws.Has(n))
}
