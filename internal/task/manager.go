package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"todo/internal/debounce"
	"todo/internal/kv"
	"todo/internal/logger"
)

const (
	// DefaultStorageKey is the key the list is persisted under.
	DefaultStorageKey = "minimal-todos-v1"

	// DefaultDebounce is the quiet period before a debounced write.
	DefaultDebounce = 300 * time.Millisecond

	// StoreTimeout bounds writes started by the debounce timer.
	StoreTimeout = 5 * time.Second
)

// Manager owns the task list, keeps it in sync with a kv.Store and notifies
// views after every change. It is safe for concurrent use.
type Manager struct {
	store    kv.Store
	key      string
	interval time.Duration
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
	saver    *debounce.Debouncer

	mu      sync.Mutex
	tasks   []Task
	version uint64 // bumped on every change to tasks

	// writeMu orders snapshot+write pairs so an older snapshot never lands last.
	writeMu sync.Mutex

	viewMu   sync.RWMutex
	views    map[int]View
	nextView int

	// notifyMu serializes view calls; notified is the newest version a view has seen.
	notifyMu sync.Mutex
	notified uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.key = key
		}
	}
}

// WithDebounce sets the debounced write interval.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager returns a Manager with an empty list. Call Load to read the store.
func NewManager(store kv.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		key:      DefaultStorageKey,
		interval: DefaultDebounce,
		now:      time.Now,
		newID:    NewID,
		tasks:    []Task{},
		views:    make(map[int]View),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get()
	}
	m.saver = debounce.New(m.interval, m.writePending)
	return m
}

// Key returns the storage key.
func (m *Manager) Key() string { return m.key }

// Subscribe registers v for render notifications and returns a function that
// removes it.
func (m *Manager) Subscribe(v View) func() {
	m.viewMu.Lock()
	id := m.nextView
	m.nextView++
	m.views[id] = v
	m.viewMu.Unlock()

	return func() {
		m.viewMu.Lock()
		delete(m.views, id)
		m.viewMu.Unlock()
	}
}

// Load reads the persisted list. A missing or unreadable value yields an empty
// list; only store failures are returned.
func (m *Manager) Load(ctx context.Context) error {
	data, err := m.store.Get(ctx, m.key)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks := []Task{}
	if err == nil {
		var stored []Task
		if jsonErr := json.Unmarshal(data, &stored); jsonErr != nil {
			m.log.Warn("discarding unreadable task list", "key", m.key, "error", jsonErr)
		} else if stored != nil {
			tasks = stored
		}
	}

	m.mu.Lock()
	m.tasks = tasks
	version, snap := m.changedLocked()
	m.mu.Unlock()

	m.log.Debug("tasks loaded", "key", m.key, "count", len(tasks))
	m.notifyRender(version, snap)
	return nil
}

// Tasks returns a copy of the list, newest first.
func (m *Manager) Tasks() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Get returns the task with id.
func (m *Manager) Get(id string) (Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.tasks[i], true
	}
	return Task{}, false
}

// Len returns the number of tasks.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// OpenCount returns the number of tasks not completed.
func (m *Manager) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return OpenCount(m.tasks)
}

// Add prepends a task with the trimmed text. Empty text adds nothing and
// returns ErrEmptyText.
func (m *Manager) Add(ctx context.Context, text string) (Task, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return Task{}, ErrEmptyText
	}

	t := Task{
		ID:      m.newID(),
		Text:    clean,
		Created: m.now().UnixMilli(),
	}

	m.mu.Lock()
	m.tasks = append([]Task{t}, m.tasks...)
	version, snap := m.changedLocked()
	m.mu.Unlock()

	err := m.Save(ctx)
	m.notifyRender(version, snap)
	return t, err
}

// Update replaces the text of task id. Text that is empty after trimming keeps
// the previous text, but the list is still saved and rendered.
func (m *Manager) Update(ctx context.Context, id, text string) (Task, error) {
	clean := strings.TrimSpace(text)

	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return Task{}, ErrNotFound
	}
	if clean != "" {
		m.tasks[i].Text = clean
	}
	t := m.tasks[i]
	version, snap := m.changedLocked()
	m.mu.Unlock()

	err := m.Save(ctx)
	m.notifyRender(version, snap)
	return t, err
}

// Toggle flips the completed flag of task id. The write is debounced so rapid
// toggles coalesce; only the item and the counter are re-rendered.
func (m *Manager) Toggle(ctx context.Context, id string) (Task, error) {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return Task{}, ErrNotFound
	}
	m.tasks[i].Completed = !m.tasks[i].Completed
	t := m.tasks[i]
	open := OpenCount(m.tasks)
	m.version++
	version := m.version
	m.mu.Unlock()

	m.SaveDebounced()
	m.notify(version, func(v View) {
		v.RenderItem(t)
		v.RenderCount(open)
	})
	return t, nil
}

// Remove deletes task id.
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
	version, snap := m.changedLocked()
	m.mu.Unlock()

	err := m.Save(ctx)
	m.notifyRender(version, snap)
	return err
}

// ClearCompleted removes every completed task and returns how many were
// removed. Nothing is saved or rendered when none were.
func (m *Manager) ClearCompleted(ctx context.Context) (int, error) {
	m.mu.Lock()
	kept := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(m.tasks) - len(kept)
	if removed == 0 {
		m.mu.Unlock()
		return 0, nil
	}
	m.tasks = kept
	version, snap := m.changedLocked()
	m.mu.Unlock()

	err := m.Save(ctx)
	m.notifyRender(version, snap)
	return removed, err
}

// ExportJSON returns the list as a JSON array indented with two spaces.
func (m *Manager) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(m.Tasks(), "", "  ")
}

// ImportJSON replaces the list with the tasks in raw. A payload that is not a
// JSON array returns a *ParseError and leaves the list untouched.
func (m *Manager) ImportJSON(ctx context.Context, raw []byte) (int, error) {
	items, err := ParseImport(raw)
	if err != nil {
		return 0, err
	}
	tasks := Normalize(items, m.now, m.newID)

	m.mu.Lock()
	m.tasks = tasks
	version, snap := m.changedLocked()
	m.mu.Unlock()

	m.log.Debug("tasks imported", "elements", len(items), "kept", len(tasks))
	err = m.Save(ctx)
	m.notifyRender(version, snap)
	return len(tasks), err
}

// Save writes the list now, dropping any pending debounced write, and
// re-renders the counter.
func (m *Manager) Save(ctx context.Context) error {
	m.saver.Cancel()
	err := m.persist(ctx)

	m.mu.Lock()
	open := OpenCount(m.tasks)
	version := m.version
	m.mu.Unlock()

	m.notify(version, func(v View) { v.RenderCount(open) })
	return err
}

// SaveDebounced schedules a write after the debounce interval, restarting
// the interval if one is already pending.
func (m *Manager) SaveDebounced() {
	m.saver.Trigger()
}

// Flush performs a pending debounced write now.
func (m *Manager) Flush(ctx context.Context) error {
	if !m.saver.Cancel() {
		return nil
	}
	return m.persist(ctx)
}

// Close flushes a pending write and stops the debounce timer.
func (m *Manager) Close(ctx context.Context) error {
	err := m.Flush(ctx)
	m.saver.Stop()
	return err
}

func (m *Manager) writePending() {
	ctx, cancel := context.WithTimeout(context.Background(), StoreTimeout)
	defer cancel()
	if err := m.persist(ctx); err != nil {
		m.log.Error("debounced save failed", "key", m.key, "error", err)
	}
}

func (m *Manager) persist(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	data, err := json.Marshal(m.tasks)
	n := len(m.tasks)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	if err := m.store.Set(ctx, m.key, data); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	m.log.Debug("tasks saved", "key", m.key, "count", n)
	return nil
}

func (m *Manager) notifyRender(version uint64, tasks []Task) {
	m.notify(version, func(v View) { v.Render(tasks) })
}

// notify calls fn for every view unless a newer version was already
// delivered, so views never go back to an older list.
func (m *Manager) notify(version uint64, fn func(View)) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if version < m.notified {
		return
	}
	m.notified = version
	for _, v := range m.subscribers() {
		fn(v)
	}
}

func (m *Manager) subscribers() []View {
	m.viewMu.RLock()
	defer m.viewMu.RUnlock()
	views := make([]View, 0, len(m.views))
	for _, v := range m.views {
		views = append(views, v)
	}
	return views
}

// changedLocked records a change to the list and returns its version with a
// snapshot for the views.
func (m *Manager) changedLocked() (uint64, []Task) {
	m.version++
	return m.version, m.snapshotLocked()
}

func (m *Manager) snapshotLocked() []Task {
	out := make([]Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

func (m *Manager) indexLocked(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
