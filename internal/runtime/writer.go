package runtime

import "github.com/aretw0/deepset/pkg/path"

// Write asks a Writer to place a value at one key of one container.
type Write struct {
	Key any
	// Value is the value to store. Nil means construct: a fresh child chosen
	// by classifying Next is stored instead.
	Value any
	// Next is the key that will address the constructed child.
	Next any
}

func (w Write) construct() bool {
	return w.Value == nil
}

// payload returns what is stored at Key.
func (w Write) payload() any {
	if w.construct() {
		return path.NewChild(w.Next)
	}
	return w.Value
}

// Result is the outcome of a Write.
type Result struct {
	// Ref is the new Target: the stored value or the constructed child.
	Ref any
	// Regrown is set when a bare list had to grow. The caller must store it
	// wherever the old list was held.
	Regrown []any
}

// Writer places values in one container family.
type Writer interface {
	WriteAt(target any, w Write) (Result, error)
}
