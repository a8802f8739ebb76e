package runtime

import (
	"github.com/aretw0/deepset/pkg/domain"
)

// Dispatcher routes a Write to the writer of the target's container family.
type Dispatcher struct {
	customizer domain.SetCustomizer
	writers    [domain.NumFamilies]Writer
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherConfig)

type dispatcherConfig struct {
	maxHoles int
}

// WithMaxHoles caps the nil holes a list write may pad. Values <= 0 keep
// DefaultMaxHoles.
func WithMaxHoles(n int) DispatcherOption {
	return func(c *dispatcherConfig) {
		c.maxHoles = n
	}
}

// NewDispatcher creates a Dispatcher. A nil customizer disables overrides.
func NewDispatcher(customizer domain.SetCustomizer, opts ...DispatcherOption) *Dispatcher {
	var cfg dispatcherConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Dispatcher{
		customizer: customizer,
		writers: [domain.NumFamilies]Writer{
			domain.FamilyIndexed:   indexedWriter{maxHoles: cfg.maxHoles},
			domain.FamilyKeyValue:  keyValueWriter{},
			domain.FamilyUnordered: unorderedWriter{},
		},
	}
}

// SetAtKey applies w to target. The customizer, when set, is consulted first and
// its result is used verbatim when it reports the write as handled.
// Failures are returned as *domain.ConstructionError.
func (d *Dispatcher) SetAtKey(target any, w Write, depth int) (Result, error) {
	if d.customizer != nil {
		if ref, handled := d.customizer(target, w.Key, depth, w.Value); handled {
			return Result{Ref: ref}, nil
		}
	}
	res, err := d.write(target, w)
	if err != nil {
		return Result{}, &domain.ConstructionError{Depth: depth, Key: w.Key, Target: target, Err: err}
	}
	return res, nil
}

// write skips the customizer.
func (d *Dispatcher) write(target any, w Write) (Result, error) {
	family, ok := FamilyOf(target)
	if !ok {
		return Result{}, domain.ErrUnsettable
	}
	return d.writers[family].WriteAt(target, w)
}
