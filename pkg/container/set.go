package container

import (
	"encoding/json"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Set is an insertion-ordered collection with identity membership.
// The zero value is not usable; call NewSet.
type Set struct {
	m *orderedmap.OrderedMap[any, any]
}

var _ Enumerable = (*Set)(nil)

// NewSet creates a Set holding values in order. Values that cannot be
// hashed are skipped.
func NewSet(values ...any) *Set {
	s := &Set{m: orderedmap.New[any, any]()}
	for _, v := range values {
		_ = s.Add(v)
	}
	return s
}

// Add appends v unless it is already a member. Re-adding keeps the
// original position.
func (s *Set) Add(v any) error {
	id, err := Identity(v)
	if err != nil {
		return err
	}
	if _, ok := s.m.Get(id); ok {
		return nil
	}
	s.m.Set(id, v)
	return nil
}

func (s *Set) Delete(v any) bool {
	id, err := Identity(v)
	if err != nil {
		return false
	}
	_, ok := s.m.Delete(id)
	return ok
}

func (s *Set) Has(v any) bool {
	id, err := Identity(v)
	if err != nil {
		return false
	}
	_, ok := s.m.Get(id)
	return ok
}

func (s *Set) Len() int {
	return s.m.Len()
}

// All iterates members in insertion order.
func (s *Set) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for p := s.m.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Value) {
				return
			}
		}
	}
}

// Values returns a snapshot of the members in insertion order.
func (s *Set) Values() []any {
	out := make([]any, 0, s.m.Len())
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// At returns the member at position i.
func (s *Set) At(i int) (any, bool) {
	if i < 0 || i >= s.m.Len() {
		return nil, false
	}
	p := s.m.Oldest()
	for ; i > 0; i-- {
		p = p.Next()
	}
	return p.Value, true
}

// Replace swaps old for new in place. If new is already a member, old is
// simply removed. If old is not a member, new is appended.
func (s *Set) Replace(old, new any) error {
	newID, err := Identity(new)
	if err != nil {
		return err
	}
	oldID, err := Identity(old)
	if err != nil {
		return err
	}
	if _, ok := s.m.Get(oldID); !ok {
		return s.Add(new)
	}
	if oldID == newID {
		s.m.Set(newID, new)
		return nil
	}
	if _, ok := s.m.Get(newID); ok {
		s.m.Delete(oldID)
		return nil
	}
	s.m.Set(newID, new)
	if err := s.m.MoveBefore(newID, oldID); err != nil {
		return err
	}
	s.m.Delete(oldID)
	return nil
}

// MarshalJSON encodes the set as a JSON array in insertion order.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}
