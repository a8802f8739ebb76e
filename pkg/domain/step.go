package domain

// StepKind defines the category of a walk step.
type StepKind string

const (
	StepResolved    StepKind = "resolved"    // an existing level was followed
	StepConstructed StepKind = "constructed" // a missing level was created
	StepResult      StepKind = "result"      // the walk finished
)

// Step is one observable transition of a walk.
type Step struct {
	Kind  StepKind
	Depth int // number of keys consumed after this step
	Key   any
	// Target is the level reached by this step. For a result step it is the value
	// written on success and the last reached level on failure.
	Target any
	OK     bool
	Err    error
}

// Final reports whether this step closes the walk.
func (s Step) Final() bool {
	return s.Kind == StepResult
}
