package runtime

import (
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/aretw0/deepset/pkg/container"
	"github.com/aretw0/deepset/pkg/deepget"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/ports"
)

type phase int

const (
	phaseResolving phase = iota
	phaseConstructing
	phaseWriting
	phaseDone
)

func (p phase) String() string {
	switch p {
	case phaseResolving:
		return "resolving-prefix"
	case phaseConstructing:
		return "constructing-remainder"
	case phaseWriting:
		return "writing-terminal"
	}
	return "done"
}

// Walker drives one deep assignment as a pull iterator.
//
// Each call to Next performs at most one level of work: following an existing
// level, constructing a missing one, or writing the terminal value. The final
// step has Kind domain.StepResult. Side effects are applied as steps are pulled
// and are never rolled back. A Walker is single-use and not safe for
// concurrent use.
type Walker struct {
	host  any
	keys  []any
	value any

	resolver   ports.Resolver
	dispatcher *Dispatcher
	logger     *slog.Logger
	hooks      domain.Hooks

	phase phase
	depth int
	// frames[d] is the Target reached after d keys.
	frames []any

	pull func() (any, bool)
	stop func()

	ok  bool
	err error
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used for per-step debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithHooks registers lifecycle callbacks.
func WithHooks(hooks domain.Hooks) Option {
	return func(w *Walker) {
		w.hooks = hooks
	}
}

// WithResolver replaces the prefix resolver.
func WithResolver(r ports.Resolver) Option {
	return func(w *Walker) {
		if r != nil {
			w.resolver = r
		}
	}
}

// WithDispatcher replaces the dispatcher, e.g. to install a customizer.
func WithDispatcher(d *Dispatcher) Option {
	return func(w *Walker) {
		if d != nil {
			w.dispatcher = d
		}
	}
}

// NewWalker prepares a walk writing value at keys inside host.
// Nothing is resolved or written until the first call to Next.
func NewWalker(host any, keys []any, value any, opts ...Option) (*Walker, error) {
	if host == nil || keys == nil || value == nil {
		return nil, domain.ErrBadArguments
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty key sequence", domain.ErrBadPath)
	}

	w := &Walker{
		host:       host,
		keys:       keys,
		value:      value,
		resolver:   deepget.New(),
		dispatcher: NewDispatcher(nil),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		frames:     make([]any, 1, len(keys)+1),
	}
	w.frames[0] = host
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Next performs the next unit of work and returns the step it produced.
// It returns false once the walk is over.
func (w *Walker) Next() (domain.Step, bool) {
	last := len(w.keys) - 1
	for {
		switch w.phase {
		case phaseResolving:
			if w.pull == nil {
				w.pull, w.stop = iter.Pull(w.resolver.Resolve(w.host, w.keys[:last]))
			}
			if target, ok := w.pull(); ok && w.depth < last {
				w.descend(target)
				return w.emit(domain.Step{
					Kind:   domain.StepResolved,
					Depth:  w.depth,
					Key:    w.keys[w.depth-1],
					Target: target,
					OK:     true,
				}), true
			}
			w.release()
			w.phase = phaseConstructing

		case phaseConstructing:
			if w.depth >= last {
				w.phase = phaseWriting
				continue
			}
			key := w.keys[w.depth]
			res, err := w.apply(Write{Key: key, Next: w.keys[w.depth+1]})
			if err != nil {
				return w.finish(err), true
			}
			w.descend(res.Ref)
			return w.emit(domain.Step{
				Kind:   domain.StepConstructed,
				Depth:  w.depth,
				Key:    key,
				Target: res.Ref,
				OK:     true,
			}), true

		case phaseWriting:
			if _, err := w.apply(Write{Key: w.keys[last], Value: w.value}); err != nil {
				return w.finish(err), true
			}
			w.depth++
			return w.finish(nil), true

		default:
			return domain.Step{}, false
		}
	}
}

// All returns the remaining steps as a sequence.
// Breaking out of the loop leaves the walker where it stopped.
func (w *Walker) All() iter.Seq[domain.Step] {
	return func(yield func(domain.Step) bool) {
		for {
			step, ok := w.Next()
			if !ok || !yield(step) {
				return
			}
		}
	}
}

// Drain runs the walk to completion and reports its outcome.
func (w *Walker) Drain() (bool, error) {
	for range w.All() {
	}
	return w.ok, w.err
}

// Err returns the failure that ended the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

// Depth returns the number of keys consumed so far.
func (w *Walker) Depth() int {
	return w.depth
}

// Stop abandons the walk. Levels already written stay in place.
func (w *Walker) Stop() {
	w.release()
	w.phase = phaseDone
}

func (w *Walker) target() any {
	return w.frames[w.depth]
}

func (w *Walker) descend(target any) {
	w.depth++
	w.frames = append(w.frames, target)
}

func (w *Walker) release() {
	if w.stop != nil {
		w.stop()
		w.stop = nil
	}
}

// apply writes at the current depth and re-seats the target if it had to grow.
func (w *Walker) apply(write Write) (Result, error) {
	target := w.target()
	res, err := w.dispatcher.SetAtKey(target, write, w.depth)
	if err != nil {
		return Result{}, err
	}
	if res.Regrown != nil {
		if err := w.reseat(target, res.Regrown); err != nil {
			return Result{}, &domain.ConstructionError{Depth: w.depth, Key: write.Key, Target: target, Err: err}
		}
	}
	return res, nil
}

// reseat stores a regrown list where its previous version was held.
func (w *Walker) reseat(old any, regrown []any) error {
	if w.depth == 0 {
		return fmt.Errorf("%w: pass a *[]any to grow the root list", domain.ErrNotAddressable)
	}
	parent := w.frames[w.depth-1]
	if set, ok := parent.(container.Enumerable); ok {
		if err := set.Replace(old, regrown); err != nil {
			return err
		}
	} else if _, err := w.dispatcher.write(parent, Write{Key: w.keys[w.depth-1], Value: regrown}); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNotAddressable, err)
	}
	w.frames[w.depth] = regrown
	return nil
}

func (w *Walker) emit(step domain.Step) domain.Step {
	w.logger.Debug("walk step",
		"kind", step.Kind,
		"phase", w.phase,
		"depth", step.Depth,
		"key", step.Key,
	)
	if w.hooks.OnStep != nil {
		w.hooks.OnStep(step)
	}
	return step
}

func (w *Walker) finish(err error) domain.Step {
	w.release()
	w.phase = phaseDone
	w.ok = err == nil
	w.err = err

	step := domain.Step{
		Kind:  domain.StepResult,
		Depth: w.depth,
		Key:   w.keys[min(w.depth, len(w.keys)-1)],
		OK:    w.ok,
		Err:   err,
	}
	if w.ok {
		step.Target = w.value
	} else {
		step.Target = w.target()
		w.logger.Debug("walk failed", "depth", w.depth, "error", err)
	}

	w.emit(step)
	if w.hooks.OnFinish != nil {
		w.hooks.OnFinish(w.ok, err)
	}
	return step
}
