package container

import (
	"fmt"
	"reflect"

	"github.com/aretw0/deepset/pkg/domain"
)

type sliceIdentity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type refIdentity struct {
	typ reflect.Type
	ptr uintptr
}

// Identity returns a comparable value standing for v's identity.
// Two values share an identity when they are == (comparable values) or when they
// refer to the same backing storage (maps, slices, funcs, chans).
// Slices with zero capacity have no storage of their own: every one of them
// points at the same address, so they are rejected with domain.ErrInvalidKey.
func Identity(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Func:
		return refIdentity{typ: rv.Type(), ptr: rv.Pointer()}, nil
	case reflect.Slice:
		if rv.Cap() == 0 {
			return nil, fmt.Errorf("%w: zero-capacity %T has no identity", domain.ErrInvalidKey, v)
		}
		return sliceIdentity{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, nil
	}
	if !rv.Comparable() {
		return nil, fmt.Errorf("%w: %T is not comparable", domain.ErrInvalidKey, v)
	}
	return v, nil
}

// Hashable reports whether v can be used as a Set member or Map key.
func Hashable(v any) bool {
	_, err := Identity(v)
	return err == nil
}

// Comparable reports whether v can key a built-in Go map without panicking.
// Unlike Hashable it rejects slices, maps and funcs.
func Comparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}

// Same reports whether a and b share an identity.
func Same(a, b any) bool {
	ia, err := Identity(a)
	if err != nil {
		return false
	}
	ib, err := Identity(b)
	if err != nil {
		return false
	}
	return ia == ib
}
