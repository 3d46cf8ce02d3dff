package breakdown

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/braidtask/braid/internal/store"
)

// Synchronizer drives the regeneration protocol for a task: IDLE, then
// BREAKING_DOWN while the generator runs, then IDLE again whatever the
// outcome. The store stays fully usable while a generation is in flight;
// the only store transitions the synchronizer makes are marking the parent
// expanded up front and the single atomic child replacement at the end.
type Synchronizer struct {
	store     *store.Store
	generator SubtaskGenerator

	group singleflight.Group

	mu     sync.Mutex
	active map[string]bool
}

// NewSynchronizer wires a store to a generator.
func NewSynchronizer(s *store.Store, g SubtaskGenerator) *Synchronizer {
	return &Synchronizer{
		store:     s,
		generator: g,
		active:    make(map[string]bool),
	}
}

// Result reports what a breakdown run did.
type Result struct {
	// Suggestions is how many usable suggestions the generator returned.
	Suggestions int
	// Applied reports whether the child set was actually replaced. False
	// with a nil error means either the generator returned nothing (existing
	// children kept) or the parent disappeared while the call was in flight.
	Applied bool
}

// Breakdown regenerates the child set for the task with the given id.
//
// The parent is marked expanded before the generator is invoked so incoming
// children render immediately. On generator failure no collection mutation
// occurs and the error surfaces to the caller. A second Breakdown for the
// same id while one is in flight joins the running generation instead of
// racing it: both callers get the same Result, and two regenerations can
// never interleave for one parent.
func (s *Synchronizer) Breakdown(ctx context.Context, id string) (Result, error) {
	parent := s.store.Get(id)
	if parent == nil {
		return Result{}, fmt.Errorf("task %s not found", id)
	}

	v, err, _ := s.group.Do(id, func() (interface{}, error) {
		s.setActive(id, true)
		defer s.setActive(id, false)

		if err := s.store.SetExpanded(id, true); err != nil {
			return Result{}, err
		}

		suggestions, err := s.generator.GenerateSubtasks(ctx, parent.Text)
		if err != nil {
			return Result{}, fmt.Errorf("generate subtasks for %s: %w", id, err)
		}
		if len(suggestions) == 0 {
			return Result{}, nil
		}

		applied, err := s.store.ReplaceChildren(id, suggestions)
		if err != nil {
			return Result{Suggestions: len(suggestions)}, err
		}
		return Result{Suggestions: len(suggestions), Applied: applied}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// IsActive reports whether the given id is currently breaking down.
func (s *Synchronizer) IsActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[id]
}

// Active returns the ids currently breaking down, sorted for stable output.
func (s *Synchronizer) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.active))
	for id := range s.active {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Synchronizer) setActive(id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.active[id] = true
	} else {
		delete(s.active, id)
	}
}
