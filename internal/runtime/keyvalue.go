package runtime

import (
	"fmt"

	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/domain"
)

// keyValueWriter stores entries in associative containers, keeping key identity.
type keyValueWriter struct{}

func (keyValueWriter) WriteAt(target any, w Write) (Result, error) {
	switch t := target.(type) {
	case map[any]any:
		if t == nil {
			return Result{}, fmt.Errorf("%w: nil map", domain.ErrUnsettable)
		}
		if !container.Comparable(w.Key) {
			return Result{}, fmt.Errorf("%w: %T is not comparable", domain.ErrInvalidKey, w.Key)
		}
		v := w.payload()
		t[w.Key] = v
		return Result{Ref: v}, nil

	case container.KeyValue:
		v := w.payload()
		if err := t.Store(w.Key, v); err != nil {
			return Result{}, err
		}
		return Result{Ref: v}, nil
	}
	return Result{}, domain.ErrUnsettable
}
