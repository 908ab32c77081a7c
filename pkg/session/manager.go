package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goldi-lab/gift"
	"github.com/goldi-lab/gift/internal/logging"
	"github.com/goldi-lab/gift/pkg/domain"
	"github.com/goldi-lab/gift/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a session.
const DefaultLockTTL = 30 * time.Second

// ErrSessionExists is returned by Create when the ID is taken.
var ErrSessionExists = errors.New("session already exists")

// ChangeFunc observes committed changes. It runs inside the session's
// critical section, so it sees changes in order and must not block.
type ChangeFunc func(ctx context.Context, diff *domain.StateDiff)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager runs load, dispatch and save of one session as a single critical
// section. Local mutexes are reference counted and garbage collected; an
// optional DistributedLocker extends the section across replicas.
type Manager struct {
	store  ports.SnapshotStore
	engine ports.Dispatcher

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker    ports.DistributedLocker
	lockTTL   time.Duration
	logger    *slog.Logger
	listeners []ChangeFunc
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Session Manager over store, dispatching with engine.
func NewManager(store ports.SnapshotStore, engine ports.Dispatcher, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		engine:  engine,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers fn for every committed change of any session.
func (m *Manager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock entry.mu, and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create stores a new empty session. It fails with ErrSessionExists if the ID is taken.
func (m *Manager) Create(ctx context.Context, sessionID, name string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, sessionID)
		if err == nil {
			return fmt.Errorf("%s: %w", sessionID, ErrSessionExists)
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		sess = domain.NewSession(name)
		sess.State = m.engine.NewSnapshot()
		sess.Revision = 1
		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.notify(ctx, sessionID, nil, sess)
		return nil
	})
	return sess, err
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, sessionID)
		return err
	})
	return sess, err
}

// LoadOrCreate loads a session, creating an empty one if it does not exist.
func (m *Manager) LoadOrCreate(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var created bool
		var err error
		sess, created, err = m.loadOrNew(ctx, sessionID)
		if err != nil || !created {
			return err
		}
		// Persist immediately to reserve the ID.
		sess.Revision = 1
		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return sess, err
}

func (m *Manager) loadOrNew(ctx context.Context, sessionID string) (*domain.Session, bool, error) {
	sess, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return sess, false, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, fmt.Errorf("failed to check session existence: %w", err)
	}
	sess = domain.NewSession(sessionID)
	sess.State = m.engine.NewSnapshot()
	return sess, true, nil
}

// Dispatch applies action to a stored session and saves the result.
// Actions that change nothing (undo with no step, for example) are not saved.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, action domain.Action) (*domain.Session, error) {
	return m.update(ctx, sessionID, false, action)
}

// Undo steps the session one version back if possible.
func (m *Manager) Undo(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.Dispatch(ctx, sessionID, domain.Action{Type: domain.ActionUndo})
}

// Redo steps the session one version forward if possible.
func (m *Manager) Redo(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.Dispatch(ctx, sessionID, domain.Action{Type: domain.ActionRedo})
}

// Import replaces the session snapshot with an exported one, creating the
// session if needed.
func (m *Manager) Import(ctx context.Context, sessionID string, data []byte) (*domain.Session, error) {
	return m.update(ctx, sessionID, true, domain.Action{Type: domain.ActionLoadState, Payload: data})
}

// Export serialises the snapshot of a stored session.
func (m *Manager) Export(ctx context.Context, sessionID string) ([]byte, error) {
	sess, err := m.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return gift.Export(sess.State)
}

func (m *Manager) update(ctx context.Context, sessionID string, create bool, action domain.Action) (*domain.Session, error) {
	var sess *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var created bool
		var err error
		if create {
			sess, created, err = m.loadOrNew(ctx, sessionID)
		} else {
			sess, err = m.store.Load(ctx, sessionID)
		}
		if err != nil {
			return err
		}

		before := sess.State
		next, err := m.engine.Dispatch(gift.ContextWithSession(ctx, sessionID), before, action)
		if err != nil {
			return err
		}

		diff, err := domain.Diff(sessionID, &before, &next)
		if err != nil {
			return fmt.Errorf("failed to diff session %s: %w", sessionID, err)
		}
		// A loaded snapshot may differ only in its history.
		if diff == nil && !created && action.Type != domain.ActionLoadState {
			m.logger.Debug("no change", "session_id", sessionID, "action", action.Type)
			return nil
		}

		sess.State = next
		sess.Revision++
		if err := m.store.Save(ctx, sessionID, sess); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		// Store middleware may rewrite what is persisted; report that.
		committed, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to reload session %s: %w", sessionID, err)
		}
		sess = committed

		diff, err = domain.Diff(sessionID, &before, &sess.State)
		if err != nil {
			return fmt.Errorf("failed to diff session %s: %w", sessionID, err)
		}
		if diff != nil {
			m.emit(ctx, diff)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Save persists a session as is.
func (m *Manager) Save(ctx context.Context, sessionID string, sess *domain.Session) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, sess)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) notify(ctx context.Context, sessionID string, before, after *domain.Session) {
	var old *domain.Snapshot
	if before != nil {
		old = &before.State
	}
	diff, err := domain.Diff(sessionID, old, &after.State)
	if err != nil || diff == nil {
		return
	}
	m.emit(ctx, diff)
}

func (m *Manager) emit(ctx context.Context, diff *domain.StateDiff) {
	m.mu.Lock()
	listeners := append([]ChangeFunc(nil), m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(ctx, diff)
	}
}
