package deepset

import (
	"io"
	"log/slog"
	"regexp"

	"github.com/aretw0/deepset/internal/runtime"
	"github.com/aretw0/deepset/pkg/deepget"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
	"github.com/aretw0/deepset/pkg/ports"
)

// DefaultMaxHoles is the padding limit used when WithMaxHoles is not given.
const DefaultMaxHoles = runtime.DefaultMaxHoles

// Walker is a pull iterator over the steps of one assignment.
type Walker = runtime.Walker

// Setter performs deep assignments with a fixed configuration.
// It holds no per-call state and can be shared between goroutines as long as
// the hosts they write to are not.
type Setter struct {
	customizer    domain.SetCustomizer
	getCustomizer domain.GetCustomizer
	match         *regexp.Regexp
	resolver      ports.Resolver
	hooks         domain.Hooks
	logger        *slog.Logger
	maxHoles      int
}

// Option defines a functional option for configuring the Setter.
type Option func(*Setter)

// WithCustomizer installs a SetCustomizer consulted before default dispatch.
func WithCustomizer(fn domain.SetCustomizer) Option {
	return func(s *Setter) {
		s.customizer = fn
	}
}

// WithGetCustomizer installs a GetCustomizer used when resolving existing levels.
// It has no effect when WithResolver is also given.
func WithGetCustomizer(fn domain.GetCustomizer) Option {
	return func(s *Setter) {
		s.getCustomizer = fn
	}
}

// WithMatch overrides the pattern that splits string paths into keys.
func WithMatch(re *regexp.Regexp) Option {
	return func(s *Setter) {
		s.match = re
	}
}

// WithResolver replaces the resolver of existing levels.
func WithResolver(r ports.Resolver) Option {
	return func(s *Setter) {
		s.resolver = r
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Setter) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks called for every walk.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Setter) {
		s.hooks = hooks
	}
}

// WithMaxHoles caps how many nil holes a write past the end of a list may pad.
// Larger gaps fail with domain.ErrOutOfBounds. Values <= 0 keep
// DefaultMaxHoles.
func WithMaxHoles(n int) Option {
	return func(s *Setter) {
		s.maxHoles = n
	}
}

// New creates a Setter.
func New(opts ...Option) *Setter {
	s := &Setter{match: path.DefaultMatch}
	for _, opt := range opts {
		opt(s)
	}
	if s.match == nil {
		s.match = path.DefaultMatch
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if s.resolver == nil {
		s.resolver = deepget.New(deepget.WithCustomizer(s.getCustomizer))
	}
	return s
}

// Keys parses p with the Setter's match pattern.
func (s *Setter) Keys(p any) ([]any, error) {
	return path.Parse(p, s.match)
}

// Stream prepares a walk and returns it without running it.
// Argument errors are returned before anything is touched.
func (s *Setter) Stream(host, p, value any) (*Walker, error) {
	if host == nil || p == nil || value == nil {
		return nil, domain.ErrBadArguments
	}
	keys, err := s.Keys(p)
	if err != nil {
		return nil, err
	}
	return runtime.NewWalker(host, keys, value,
		runtime.WithResolver(s.resolver),
		runtime.WithDispatcher(runtime.NewDispatcher(s.customizer, runtime.WithMaxHoles(s.maxHoles))),
		runtime.WithLogger(s.logger),
		runtime.WithHooks(s.hooks),
	)
}

// Set writes value at p inside host and reports whether it succeeded.
func (s *Setter) Set(host, p, value any) bool {
	ok, err := s.Apply(host, p, value)
	if err != nil {
		s.logger.Debug("set failed", "path", p, "error", err)
	}
	return ok
}

// Apply is Set with the error that made it fail.
func (s *Setter) Apply(host, p, value any) (bool, error) {
	w, err := s.Stream(host, p, value)
	if err != nil {
		return false, err
	}
	return w.Drain()
}

// Get reads the value at p inside host.
func (s *Setter) Get(host, p any) (any, bool) {
	if host == nil {
		return nil, false
	}
	keys, err := s.Keys(p)
	if err != nil {
		return nil, false
	}
	var (
		last any
		n    int
	)
	for v := range s.resolver.Resolve(host, keys) {
		last = v
		n++
	}
	if n != len(keys) {
		return nil, false
	}
	return last, true
}

// Set writes value at p inside host with a Setter configured by opts.
func Set(host, p, value any, opts ...Option) bool {
	return New(opts...).Set(host, p, value)
}

// Stream prepares a step-wise walk with a Setter configured by opts.
func Stream(host, p, value any, opts ...Option) (*Walker, error) {
	return New(opts...).Stream(host, p, value)
}

// Get reads the value at p inside host with a Setter configured by opts.
func Get(host, p any, opts ...Option) (any, bool) {
	return New(opts...).Get(host, p)
}
