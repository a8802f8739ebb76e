package container

import (
	"encoding/json"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type entry struct {
	key   any
	value any
}

// Map is an insertion-ordered key-value container with identity keys.
// Unlike map[any]any it accepts maps and slices as keys.
type Map struct {
	m *orderedmap.OrderedMap[any, entry]
}

var _ KeyValue = (*Map)(nil)

func NewMap() *Map {
	return &Map{m: orderedmap.New[any, entry]()}
}

func (m *Map) Load(key any) (any, bool) {
	id, err := Identity(key)
	if err != nil {
		return nil, false
	}
	e, ok := m.m.Get(id)
	return e.value, ok
}

// Store sets key to value. An existing key keeps its position.
func (m *Map) Store(key, value any) error {
	id, err := Identity(key)
	if err != nil {
		return err
	}
	m.m.Set(id, entry{key: key, value: value})
	return nil
}

func (m *Map) Delete(key any) bool {
	id, err := Identity(key)
	if err != nil {
		return false
	}
	_, ok := m.m.Delete(id)
	return ok
}

func (m *Map) Len() int {
	return m.m.Len()
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for p := m.m.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Value.key, p.Value.value) {
				return
			}
		}
	}
}

// MarshalJSON encodes the map as an object when every key is a string,
// otherwise as an array of [key, value] pairs.
func (m *Map) MarshalJSON() ([]byte, error) {
	stringKeys := true
	for k := range m.All() {
		if _, ok := k.(string); !ok {
			stringKeys = false
			break
		}
	}
	if stringKeys {
		obj := orderedmap.New[string, any]()
		for k, v := range m.All() {
			obj.Set(k.(string), v)
		}
		return json.Marshal(obj)
	}
	pairs := make([][2]any, 0, m.Len())
	for k, v := range m.All() {
		pairs = append(pairs, [2]any{k, v})
	}
	return json.Marshal(pairs)
}
