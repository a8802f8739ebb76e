package container

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/aretw0/deepset/pkg/domain"
)

// WeakMap maps pointers to values without keeping the pointers alive.
// Entries disappear once their key is collected. It cannot be enumerated.
// A value that references its own key keeps that key alive.
type WeakMap[K any] struct {
	mu sync.Mutex
	m  map[weak.Pointer[K]]any
}

var _ KeyValue = (*WeakMap[int])(nil)

func NewWeakMap[K any]() *WeakMap[K] {
	return &WeakMap[K]{m: make(map[weak.Pointer[K]]any)}
}

func weakKey[K any](key any) (weak.Pointer[K], *K, error) {
	k, ok := key.(*K)
	if !ok || k == nil {
		return weak.Pointer[K]{}, nil, fmt.Errorf("%w: weak map needs a non-nil %T key, got %T", domain.ErrInvalidKey, k, key)
	}
	return weak.Make(k), k, nil
}

func (w *WeakMap[K]) Load(key any) (any, bool) {
	wp, _, err := weakKey[K](key)
	if err != nil {
		return nil, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.m[wp]
	return v, ok
}

func (w *WeakMap[K]) Store(key, value any) error {
	wp, k, err := weakKey[K](key)
	if err != nil {
		return err
	}
	w.mu.Lock()
	_, exists := w.m[wp]
	w.m[wp] = value
	w.mu.Unlock()
	if !exists {
		runtime.AddCleanup(k, w.evict, wp)
	}
	return nil
}

func (w *WeakMap[K]) Delete(key any) bool {
	wp, _, err := weakKey[K](key)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.m[wp]
	delete(w.m, wp)
	return ok
}

func (w *WeakMap[K]) evict(wp weak.Pointer[K]) {
	w.mu.Lock()
	delete(w.m, wp)
	w.mu.Unlock()
}

// WeakSet holds pointers without keeping them alive. It has no order and
// cannot be addressed by position.
type WeakSet[T any] struct {
	mu sync.Mutex
	m  map[weak.Pointer[T]]struct{}
}

var _ Collection = (*WeakSet[int])(nil)

func NewWeakSet[T any]() *WeakSet[T] {
	return &WeakSet[T]{m: make(map[weak.Pointer[T]]struct{})}
}

func (w *WeakSet[T]) Has(v any) bool {
	wp, _, err := weakKey[T](v)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.m[wp]
	return ok
}

func (w *WeakSet[T]) Add(v any) error {
	wp, p, err := weakKey[T](v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	_, exists := w.m[wp]
	w.m[wp] = struct{}{}
	w.mu.Unlock()
	if !exists {
		runtime.AddCleanup(p, w.evict, wp)
	}
	return nil
}

func (w *WeakSet[T]) Delete(v any) bool {
	wp, _, err := weakKey[T](v)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.m[wp]
	delete(w.m, wp)
	return ok
}

func (w *WeakSet[T]) evict(wp weak.Pointer[T]) {
	w.mu.Lock()
	delete(w.m, wp)
	w.mu.Unlock()
}
