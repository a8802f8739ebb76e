package runtime

import (
	"fmt"

	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
)

// unorderedWriter writes into sets. Keys are positions in iteration order.
type unorderedWriter struct{}

func (unorderedWriter) WriteAt(target any, w Write) (Result, error) {
	coll, ok := target.(container.Collection)
	if !ok {
		return Result{}, domain.ErrUnsettable
	}
	set, ok := coll.(container.Enumerable)
	if !ok {
		return Result{}, domain.ErrUnenumerable
	}

	if w.construct() {
		child := w.payload()
		if err := set.Add(child); err != nil {
			return Result{}, err
		}
		return Result{Ref: child}, nil
	}

	pos, ok := path.Index(w.Key)
	if !ok {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrInvalidPosition, w.Key)
	}
	if !container.Hashable(w.Value) {
		return Result{}, fmt.Errorf("%w: %T cannot be a set member", domain.ErrInvalidKey, w.Value)
	}

	size := set.Len()
	if pos > size {
		return Result{}, fmt.Errorf("%w: position %d, size %d", domain.ErrOutOfBounds, pos, size)
	}
	if cur, ok := set.At(pos); ok && container.Same(cur, w.Value) {
		return Result{Ref: w.Value}, set.Add(w.Value)
	}
	// A member holds one slot only; it leaves its old slot before taking pos.
	if set.Has(w.Value) {
		set.Delete(w.Value)
		size--
		pos = min(pos, size)
	}

	switch {
	case pos == size:
		// append
	case pos == size-1:
		last, _ := set.At(pos)
		set.Delete(last)
	default:
		members := set.Values()
		tail := members[pos+1:]
		for _, m := range members[pos:] {
			set.Delete(m)
		}
		if err := set.Add(w.Value); err != nil {
			return Result{}, err
		}
		for _, m := range tail {
			if err := set.Add(m); err != nil {
				return Result{}, err
			}
		}
		return Result{Ref: w.Value}, nil
	}

	if err := set.Add(w.Value); err != nil {
		return Result{}, err
	}
	return Result{Ref: w.Value}, nil
}
