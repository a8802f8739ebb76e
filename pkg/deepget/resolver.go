package deepget

import (
	"iter"
	"reflect"

	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
)

// Resolver follows keys through nested containers.
type Resolver struct {
	customizer domain.GetCustomizer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCustomizer installs a GetCustomizer consulted before default extraction.
func WithCustomizer(fn domain.GetCustomizer) Option {
	return func(r *Resolver) {
		r.customizer = fn
	}
}

func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve yields one Target per resolved key, in path order.
// The sequence ends early when a key is missing or its value is nil.
func (r *Resolver) Resolve(host any, keys []any) iter.Seq[any] {
	return func(yield func(any) bool) {
		target := host
		for _, key := range keys {
			next, ok := r.Child(target, key)
			if !ok || next == nil {
				return
			}
			if !yield(next) {
				return
			}
			target = next
		}
	}
}

// Get returns the value at keys, or false if any level is missing.
func (r *Resolver) Get(host any, keys []any) (any, bool) {
	var (
		last any
		n    int
	)
	for v := range r.Resolve(host, keys) {
		last = v
		n++
	}
	if n != len(keys) {
		return nil, false
	}
	return last, true
}

// Child extracts the value stored under key in target.
func (r *Resolver) Child(target, key any) (any, bool) {
	if r.customizer != nil {
		if next, handled := r.customizer(target, key); handled {
			return next, true
		}
	}

	switch t := target.(type) {
	case nil:
		return nil, false
	case map[string]any:
		k, ok := path.KeyString(key)
		if !ok {
			return nil, false
		}
		v, ok := t[k]
		return v, ok
	case []any:
		return at(t, key)
	case *[]any:
		if t == nil {
			return nil, false
		}
		return at(*t, key)
	case map[any]any:
		if !container.Comparable(key) {
			return nil, false
		}
		v, ok := t[key]
		return v, ok
	case container.KeyValue:
		return t.Load(key)
	case container.Enumerable:
		i, ok := path.Index(key)
		if !ok {
			return nil, false
		}
		return t.At(i)
	case container.Collection:
		// weak collections have no positions
		return nil, false
	case string:
		return fromJSON(t, key)
	}
	return reflectChild(target, key)
}

func at(list []any, key any) (any, bool) {
	i, ok := path.Index(key)
	if !ok || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

// reflectChild reads typed maps and slices, e.g. map[string]string or []int.
func reflectChild(target, key any) (any, bool) {
	rv := reflect.ValueOf(target)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		kv, ok := mapKey(rv.Type().Key(), key)
		if !ok {
			return nil, false
		}
		v := rv.MapIndex(kv)
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := path.Index(key)
		if !ok || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

func mapKey(kt reflect.Type, key any) (reflect.Value, bool) {
	if key == nil {
		return reflect.Value{}, false
	}
	kv := reflect.ValueOf(key)
	if kv.Type().AssignableTo(kt) {
		return kv, kv.Comparable()
	}
	if kt.Kind() == reflect.String {
		if s, ok := path.KeyString(key); ok {
			return reflect.ValueOf(s).Convert(kt), true
		}
	}
	return reflect.Value{}, false
}

// Get resolves keys against host with a default Resolver.
func Get(host any, keys []any, opts ...Option) (any, bool) {
	return New(opts...).Get(host, keys)
}
