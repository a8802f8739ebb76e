package container

// Collection is an unordered container whose members have no key.
type Collection interface {
	Has(v any) bool
	Add(v any) error
	Delete(v any) bool
}

// Enumerable is a Collection with a stable iteration order that can be
// addressed by position.
type Enumerable interface {
	Collection
	Len() int
	Values() []any
	At(i int) (any, bool)
	// Replace swaps old for new keeping old's position.
	Replace(old, new any) error
}

// KeyValue is an associative container with arbitrary identity keys.
type KeyValue interface {
	Load(key any) (any, bool)
	Store(key, value any) error
}
