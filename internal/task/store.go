package task

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/taskflow/internal/kv"
)

// ErrNotFound is returned by Resolve when no task matches a reference.
var ErrNotFound = errors.New("task not found")

// ErrAmbiguous is returned by Resolve when an id prefix matches more than one task.
var ErrAmbiguous = errors.New("ambiguous task reference")

// LoadResult describes what Load found in the key-value store.
type LoadResult int

const (
	LoadedEmpty      LoadResult = iota // no snapshot stored
	LoadedSnapshot                     // snapshot decoded
	DiscardedCorrupt                   // snapshot was malformed and dropped
)

func (r LoadResult) String() string {
	switch r {
	case LoadedSnapshot:
		return "loaded"
	case DiscardedCorrupt:
		return "discarded"
	default:
		return "empty"
	}
}

// Store manages the task collection and keeps it in sync with the
// snapshot held in a kv.Store.
type Store struct {
	mu     sync.RWMutex
	tasks  []Task // newest first
	kv     kv.Store
	key    string
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the snapshot key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDFunc overrides id generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the creation timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// NewStore creates an empty store backed by storage. Call Load to read the
// existing snapshot.
func NewStore(storage kv.Store, opts ...Option) *Store {
	s := &Store{
		tasks:  []Task{},
		kv:     storage,
		key:    DefaultKey,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads its snapshot.
func Open(storage kv.Store, opts ...Option) (*Store, error) {
	s := NewStore(storage, opts...)
	if _, err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Key returns the snapshot key.
func (s *Store) Key() string { return s.key }

// Load replaces the collection with the stored snapshot. A missing snapshot
// yields an empty collection. A malformed snapshot is dropped and also yields
// an empty collection; this is not an error. Only a failure of the
// underlying storage is returned.
func (s *Store) Load() (LoadResult, error) {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		return LoadedEmpty, fmt.Errorf("reading snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		s.tasks = []Task{}
		return LoadedEmpty, nil
	}

	tasks, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Debug("discarding corrupt snapshot", "key", s.key, "error", err)
		s.tasks = []Task{}
		return DiscardedCorrupt, nil
	}

	s.tasks = tasks
	s.logger.Debug("loaded snapshot", "key", s.key, "tasks", len(tasks))
	return LoadedSnapshot, nil
}

// Persist overwrites the stored snapshot with the current collection.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	data, err := EncodeSnapshot(s.tasks)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Add trims text and prepends a new task. Blank text is ignored: it returns
// ok=false and nothing is persisted.
func (s *Store) Add(text string) (task Task, ok bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task = Task{
		ID:        s.newID(),
		Text:      text,
		CreatedAt: s.now(),
	}
	tasks := make([]Task, 0, len(s.tasks)+1)
	tasks = append(tasks, task)
	s.tasks = append(tasks, s.tasks...)

	s.logger.Debug("task added", "id", task.ID)
	return task, true, s.persistLocked()
}

// Toggle flips Done on the task with id. Unknown ids leave the collection
// unchanged; the snapshot is written either way.
func (s *Store) Toggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Done = !s.tasks[i].Done
			s.logger.Debug("task toggled", "id", id, "done", s.tasks[i].Done)
			break
		}
	}
	return s.persistLocked()
}

// Delete removes the task with id, if any, and writes the snapshot.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = s.keep(func(t Task) bool { return t.ID != id })
	return s.persistLocked()
}

// ClearCompleted removes every done task and writes the snapshot.
func (s *Store) ClearCompleted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = s.keep(func(t Task) bool { return !t.Done })
	s.logger.Debug("cleared completed", "removed", before-len(s.tasks))
	return s.persistLocked()
}

// CompleteAll marks every task done and writes the snapshot.
func (s *Store) CompleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		s.tasks[i].Done = true
	}
	return s.persistLocked()
}

// keep returns a new slice of the tasks for which fn is true.
// Caller must hold the write lock.
func (s *Store) keep(fn func(Task) bool) []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if fn(t) {
			out = append(out, t)
		}
	}
	return out
}

// List returns a copy of the whole collection, newest first.
func (s *Store) List() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Visible returns the tasks matching f in collection order.
func (s *Store) Visible(f Filter) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterTasks(s.tasks, f)
}

// Stats returns statistics for the current collection.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Resolve finds a task by reference: a 1-based position in the list visible
// under f, an exact id, or a unique id prefix.
func (s *Store) Resolve(ref string, f Filter) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n, ok := position(ref); ok {
		visible := FilterTasks(s.tasks, f)
		if n >= 1 && n <= len(visible) {
			return visible[n-1], nil
		}
	}

	for _, t := range s.tasks {
		if t.ID == ref {
			return t, nil
		}
	}

	var match *Task
	for i := range s.tasks {
		if strings.HasPrefix(s.tasks[i].ID, ref) {
			if match != nil {
				return Task{}, fmt.Errorf("%w: %q", ErrAmbiguous, ref)
			}
			match = &s.tasks[i]
		}
	}
	if match == nil {
		return Task{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return *match, nil
}

// position parses a short decimal list position.
func position(ref string) (int, bool) {
	if len(ref) > 6 {
		return 0, false
	}
	n := 0
	for _, c := range ref {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
