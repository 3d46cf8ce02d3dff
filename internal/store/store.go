// Package store owns the canonical task collection for a braid workspace.
//
// All mutations go through Store methods, which apply one of the pure
// collection operations under a write lock and hand the post-state to the
// save hook. Everything outside the store only ever sees snapshots; no
// component holds a mutable reference into the collection.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/braidtask/braid/internal/debug"
	"github.com/braidtask/braid/internal/idgen"
	"github.com/braidtask/braid/internal/merge"
	"github.com/braidtask/braid/internal/task"
)

// SaveHook receives a snapshot of the full collection after every applied
// mutation. It runs while the write lock is held, so hooks observe
// collections in exactly the order mutations applied. A hook error does not
// roll the mutation back; it propagates to the mutating caller.
type SaveHook func(tasks []*task.Task) error

// Store is the owner of the canonical task collection.
type Store struct {
	mu      sync.RWMutex
	tasks   []*task.Task
	version uint64
	save    SaveHook
	now     func() time.Time
	prefix  string
	idLen   int
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithSaveHook registers the persistence hook.
func WithSaveHook(h SaveHook) Option {
	return func(s *Store) { s.save = h }
}

// WithClock overrides the timestamp source for new tasks. Tests use this to
// pin createdAt values.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDScheme overrides the generated ID prefix and hash length.
func WithIDScheme(prefix string, length int) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
		if length > 0 {
			s.idLen = length
		}
	}
}

// New builds a store seeded with the given tasks. The seed is cloned, so the
// caller's slice stays independent of the store.
func New(initial []*task.Task, opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		prefix: idgen.DefaultPrefix,
		idLen:  idgen.DefaultLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = cloneAll(initial)
	return s
}

func cloneAll(tasks []*task.Task) []*task.Task {
	out := make([]*task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// commit installs next as the canonical collection, bumps the version and
// runs the save hook. Callers must hold the write lock.
func (s *Store) commit(next []*task.Task) error {
	s.tasks = next
	s.version++
	if s.save == nil {
		return nil
	}
	if err := s.save(cloneAll(next)); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current collection. Later mutations do
// not show through it.
func (s *Store) Snapshot() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.tasks)
}

// Version returns the mutation counter. It bumps exactly once per applied
// mutation; stale-reference no-ops leave it alone.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Len returns the number of tasks, children included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Get returns a copy of the task with the given id, or nil.
func (s *Store) Get(id string) *task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := find(s.tasks, id); t != nil {
		return t.Clone()
	}
	return nil
}

// Has reports whether a task with the given id exists.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.tasks, id) != nil
}

// Counts returns how many tasks are active and completed across the whole
// collection, children included.
func (s *Store) Counts() (active, completed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

// Add creates a new top-level task and returns a copy of it.
func (s *Store) Add(text string, priority task.Priority, aiGenerated bool) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, created := Add(s.tasks, text, priority, aiGenerated, s.now(), s.prefix, s.idLen)
	if created == nil {
		return nil, fmt.Errorf("task text is required")
	}
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// AddSubtask creates a manual child under parentID and returns a copy of it.
// A stale or nested parent is a silent no-op returning (nil, nil).
func (s *Store) AddSubtask(parentID, text string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, created := AddSubtask(s.tasks, parentID, text, s.now(), s.prefix, s.idLen)
	if created == nil {
		if find(s.tasks, parentID) == nil {
			debug.Logf("store: subtask parent %s not found, skipping\n", parentID)
			return nil, nil
		}
		return nil, fmt.Errorf("cannot add subtask under %s", parentID)
	}
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return created.Clone(), nil
}

// ToggleCompleted flips completion on one task. Unknown ids are no-ops.
func (s *Store) ToggleCompleted(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if find(s.tasks, id) == nil {
		debug.Logf("store: toggle on missing task %s, skipping\n", id)
		return nil
	}
	return s.commit(ToggleCompleted(s.tasks, id))
}

// ToggleExpanded flips collapse state on one task. Unknown ids are no-ops.
func (s *Store) ToggleExpanded(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if find(s.tasks, id) == nil {
		debug.Logf("store: expand toggle on missing task %s, skipping\n", id)
		return nil
	}
	return s.commit(ToggleExpanded(s.tasks, id))
}

// SetExpanded forces the collapse state to a specific value rather than
// flipping it. Unknown ids are no-ops.
func (s *Store) SetExpanded(id string, expanded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := find(s.tasks, id)
	if t == nil {
		debug.Logf("store: expand on missing task %s, skipping\n", id)
		return nil
	}
	if t.IsExpanded() == expanded {
		return nil
	}
	return s.commit(ToggleExpanded(s.tasks, id))
}

// SetPriority replaces the priority on one task. Unknown ids are no-ops.
func (s *Store) SetPriority(id string, priority task.Priority) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", priority)
	}
	if find(s.tasks, id) == nil {
		debug.Logf("store: priority on missing task %s, skipping\n", id)
		return nil
	}
	return s.commit(SetPriority(s.tasks, id, priority))
}

// Delete removes the task and its children, returning how many tasks went
// away. Unknown ids remove nothing.
func (s *Store) Delete(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Delete(s.tasks, id)
	removed := len(s.tasks) - len(next)
	if removed == 0 {
		debug.Logf("store: delete on missing task %s, skipping\n", id)
		return 0, nil
	}
	if err := s.commit(next); err != nil {
		return 0, err
	}
	return removed, nil
}

// ReplaceChildren atomically swaps parentID's child set for the suggestions.
// Returns whether the replacement applied; an empty suggestion list or a
// parent deleted mid-generation both report false with no mutation.
func (s *Store) ReplaceChildren(parentID string, suggestions []task.Suggestion) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied := ReplaceChildren(s.tasks, parentID, suggestions, s.now(), s.prefix, s.idLen)
	if !applied {
		debug.Logf("store: child replacement for %s not applicable\n", parentID)
		return false, nil
	}
	if err := s.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// Merge feeds an incoming collection through the import resolver and commits
// the result, returning how many tasks were added. merge.ErrNothingNew and
// *merge.ValidationError pass through without mutating anything.
func (s *Store) Merge(incoming []*task.Task) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := merge.Resolve(s.tasks, incoming)
	if err != nil {
		return 0, err
	}
	added := len(merged) - len(s.tasks)
	if err := s.commit(merged); err != nil {
		return 0, err
	}
	return added, nil
}
