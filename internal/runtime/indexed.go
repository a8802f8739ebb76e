package runtime

import (
	"fmt"

	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
)

// DefaultMaxHoles bounds how far past the end of a list an index may land.
const DefaultMaxHoles = 1 << 20

// indexedWriter writes into records and lists.
type indexedWriter struct {
	// maxHoles is the number of nil holes a single write may pad; zero means
	// DefaultMaxHoles.
	maxHoles int
}

func (iw indexedWriter) WriteAt(target any, w Write) (Result, error) {
	switch t := target.(type) {
	case map[string]any:
		if t == nil {
			return Result{}, fmt.Errorf("%w: nil record", domain.ErrUnsettable)
		}
		k, ok := path.KeyString(w.Key)
		if !ok {
			return Result{}, fmt.Errorf("%w: %T cannot name a record field", domain.ErrInvalidKey, w.Key)
		}
		v := w.payload()
		t[k] = v
		return Result{Ref: v}, nil

	case []any:
		i, ok := path.Index(w.Key)
		if !ok {
			return Result{}, fmt.Errorf("%w: %v is not a list index", domain.ErrInvalidKey, w.Key)
		}
		v := w.payload()
		list, grew, err := place(t, i, v, iw.limit())
		if err != nil {
			return Result{}, err
		}
		if grew {
			return Result{Ref: v, Regrown: list}, nil
		}
		return Result{Ref: v}, nil

	case *[]any:
		if t == nil {
			return Result{}, fmt.Errorf("%w: nil list pointer", domain.ErrUnsettable)
		}
		i, ok := path.Index(w.Key)
		if !ok {
			return Result{}, fmt.Errorf("%w: %v is not a list index", domain.ErrInvalidKey, w.Key)
		}
		v := w.payload()
		list, _, err := place(*t, i, v, iw.limit())
		if err != nil {
			return Result{}, err
		}
		*t = list
		return Result{Ref: v}, nil
	}
	return Result{}, domain.ErrUnsettable
}

func (iw indexedWriter) limit() int {
	if iw.maxHoles <= 0 {
		return DefaultMaxHoles
	}
	return iw.maxHoles
}

// place stores v at i, padding with nil holes when i is past the end.
// More than maxHoles holes fails with domain.ErrOutOfBounds.
func place(list []any, i int, v any, maxHoles int) ([]any, bool, error) {
	if i < len(list) {
		list[i] = v
		return list, false, nil
	}
	holes := i - len(list)
	if holes > maxHoles {
		return nil, false, fmt.Errorf("%w: index %d is %d past the end of a list of %d (limit %d)",
			domain.ErrOutOfBounds, i, holes, len(list), maxHoles)
	}
	grown := append(list, make([]any, holes+1)...)
	grown[i] = v
	return grown, true, nil
}
