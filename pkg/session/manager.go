// Package session serializes stack mutations per web session.
//
// The engine's read-modify-write cycle assumes at most one in-flight
// mutation per session slot. Browsers mostly guarantee that, but two
// racing requests (a pop against an event, say) would corrupt the frame
// chain, so the Manager takes a per-session lock around every operation.
// Reference counting garbage-collects idle lock entries; an optional
// DistributedLocker extends the guarantee across replicas.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/courselets/trail/internal/logging"
	"github.com/courselets/trail/pkg/domain"
	"github.com/courselets/trail/pkg/ports"
	"github.com/courselets/trail/pkg/stack"
)

// lockEntry holds the mutex and its reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager wraps a Stack with per-session locking.
type Manager struct {
	stack *stack.Stack

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) { m.locker = locker }
}

// WithLockTTL sets the distributed lock TTL (default 30s).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.lockTTL = ttl }
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a Manager over the given stack runtime.
func NewManager(s *stack.Stack, opts ...Option) *Manager {
	m := &Manager{
		stack:   s,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Push starts an activity under the session lock.
func (m *Manager) Push(ctx context.Context, r *domain.Request, graph string, stateData map[string]any) (path string, err error) {
	err = m.WithLock(ctx, r.SessionKey, func(ctx context.Context) error {
		path, err = m.stack.Push(ctx, r, graph, stateData)
		return err
	})
	return path, err
}

// Event drives a transition under the session lock.
func (m *Manager) Event(ctx context.Context, r *domain.Request, eventName string) (path string, err error) {
	err = m.WithLock(ctx, r.SessionKey, func(ctx context.Context) error {
		path, err = m.stack.Event(ctx, r, eventName)
		return err
	})
	return path, err
}

// Pop terminates the current activity under the session lock.
func (m *Manager) Pop(ctx context.Context, r *domain.Request, eventName string) (path string, err error) {
	err = m.WithLock(ctx, r.SessionKey, func(ctx context.Context) error {
		path, err = m.stack.Pop(ctx, r, eventName)
		return err
	})
	return path, err
}

// Resume adopts an orphaned frame under the session lock.
func (m *Manager) Resume(ctx context.Context, r *domain.Request, stateID string) (path string, err error) {
	err = m.WithLock(ctx, r.SessionKey, func(ctx context.Context) error {
		path, err = m.stack.Resume(ctx, r, stateID)
		return err
	})
	return path, err
}

// Current returns the current frame under the session lock (Current can
// mutate: it clears a stale slot pointer).
func (m *Manager) Current(ctx context.Context, r *domain.Request) (st *domain.State, err error) {
	err = m.WithLock(ctx, r.SessionKey, func(ctx context.Context) error {
		st, err = m.stack.Current(ctx, r)
		return err
	})
	return st, err
}

// CurrentURL returns the current frame's path under the session lock.
func (m *Manager) CurrentURL(ctx context.Context, r *domain.Request) (path string, err error) {
	err = m.WithLock(ctx, r.SessionKey, func(ctx context.Context) error {
		path, err = m.stack.CurrentURL(ctx, r)
		return err
	})
	return path, err
}

// Stack returns the underlying runtime for read-only operations that
// need no session lock (orphan listings, live-session lookups).
func (m *Manager) Stack() *stack.Stack {
	return m.stack
}

// acquire gets or creates a lock entry and increments its refcount.
func (m *Manager) acquire(sessionKey string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionKey]
	if !ok {
		entry = &lockEntry{}
		m.locks[sessionKey] = entry
	}
	entry.refs++
	return entry
}

// release decrements the refcount and drops the entry at zero.
func (m *Manager) release(sessionKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionKey]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionKey)
	}
}

// WithLock executes fn while holding the session's lock.
func (m *Manager) WithLock(ctx context.Context, sessionKey string, fn func(context.Context) error) error {
	entry := m.acquire(sessionKey)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionKey)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionKey, m.lockTTL)
		if err != nil {
			return fmt.Errorf("acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock, will expire via TTL",
					"session", sessionKey, "err", err)
			}
		}()
	}

	return fn(ctx)
}
