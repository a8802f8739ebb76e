package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/deepset"
	"github.com/aretw0/deepset/internal/logging"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
	"github.com/aretw0/deepset/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates document access, ensuring safe concurrent writes.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store  ports.DocumentStore
	setter *deepset.Setter

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the TTL of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithSetter sets the Setter used for writes and reads (match pattern, customizers, hooks).
func WithSetter(s *deepset.Setter) Option {
	return func(m *Manager) {
		m.setter = s
	}
}

// NewManager creates a new Document Manager with the given persistence store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.setter == nil {
		m.setter = deepset.New(deepset.WithLogger(m.logger))
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Set writes value at p inside the document and saves it.
// A missing document is created; its root kind follows the first key of p.
// The document is saved only when the whole walk succeeds.
func (m *Manager) Set(ctx context.Context, id string, p, value any) (any, error) {
	doc, _, err := m.write(ctx, id, p, value, false)
	return doc, err
}

// Trace is Set returning every step of the walk. Steps are returned even when
// the walk fails; the final one carries the error.
func (m *Manager) Trace(ctx context.Context, id string, p, value any) ([]domain.Step, error) {
	_, steps, err := m.write(ctx, id, p, value, true)
	return steps, err
}

func (m *Manager) write(ctx context.Context, id string, p, value any, trace bool) (any, []domain.Step, error) {
	var (
		doc   any
		steps []domain.Step
	)
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		keys, err := m.setter.Keys(p)
		if err != nil {
			return err
		}

		doc, err = m.store.Load(ctx, id)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			doc = path.NewChild(keys[0])
		} else if err != nil {
			return fmt.Errorf("failed to load document %s: %w", id, err)
		}

		// Lists are written through a pointer so the root can grow.
		host := doc
		if list, ok := doc.([]any); ok {
			host = &list
		}

		w, err := m.setter.Stream(host, keys, value)
		if err != nil {
			return err
		}
		for step := range w.All() {
			if trace {
				steps = append(steps, step)
			}
		}
		if err := w.Err(); err != nil {
			return fmt.Errorf("failed to set %s in %s: %w", path.String(keys), id, err)
		}

		if ptr, ok := host.(*[]any); ok {
			doc = *ptr
		}
		if err := m.store.Save(ctx, id, doc); err != nil {
			return fmt.Errorf("failed to save document %s: %w", id, err)
		}
		m.logger.Debug("document updated", "id", id, "path", path.String(keys))
		return nil
	})
	if err != nil {
		return nil, steps, err
	}
	return doc, steps, nil
}

// Get reads the value at p inside the document.
func (m *Manager) Get(ctx context.Context, id string, p any) (any, bool, error) {
	doc, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	v, ok := m.setter.Get(doc, p)
	return v, ok, nil
}

// Load retrieves a document from the store.
func (m *Manager) Load(ctx context.Context, id string) (any, error) {
	return m.store.Load(ctx, id)
}

// Save replaces the whole document.
func (m *Manager) Save(ctx context.Context, id string, doc any) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, doc)
	})
}

// Delete removes the document from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// WithLock executes a function while holding the lock for the document.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"document_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
