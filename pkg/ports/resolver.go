package ports

import "iter"

// Resolver yields one Target per resolved key of prefix and stops at the
// first key that cannot be followed.
type Resolver interface {
	Resolve(host any, prefix []any) iter.Seq[any]
}
