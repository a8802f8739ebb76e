package domain

// Hooks defines callbacks for walk observability.
type Hooks struct {
	OnStep   func(Step)
	OnFinish func(ok bool, err error)
}
