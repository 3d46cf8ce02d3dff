package store

import (
	"strings"
	"time"

	"github.com/braidtask/braid/internal/idgen"
	"github.com/braidtask/braid/internal/task"
)

// The functions in this file are pure: they take a collection and return a
// new one, never modifying the input slice or the tasks it holds. Unchanged
// tasks are shared between input and output; changed tasks are cloned first.

// find returns the task with the given id, or nil.
func find(tasks []*task.Task, id string) *task.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// newID mints an ID that does not collide with any task in the collection.
func newID(tasks []*task.Task, text string, now time.Time, prefix string, idLen int) string {
	return idgen.NewUnique(prefix, text, now, idLen, func(id string) bool {
		return find(tasks, id) != nil
	})
}

// updateTask returns a copy of the collection with the matching task replaced
// by a mutated clone. When id matches nothing the copy is returned unchanged.
func updateTask(tasks []*task.Task, id string, mutate func(*task.Task)) []*task.Task {
	out := make([]*task.Task, len(tasks))
	copy(out, tasks)
	for i, t := range out {
		if t.ID == id {
			c := t.Clone()
			mutate(c)
			out[i] = c
			break
		}
	}
	return out
}

// Add creates a new top-level task and prepends it to the collection.
// Returns the new collection and the created task, or the input unchanged
// and nil when text is blank.
func Add(tasks []*task.Task, text string, priority task.Priority, aiGenerated bool, now time.Time, prefix string, idLen int) ([]*task.Task, *task.Task) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, nil
	}
	if !priority.IsValid() {
		priority = task.PriorityMedium
	}

	t := &task.Task{
		ID:          newID(tasks, text, now, prefix, idLen),
		Text:        text,
		Priority:    priority,
		CreatedAt:   now,
		AIGenerated: aiGenerated,
	}

	out := make([]*task.Task, 0, len(tasks)+1)
	out = append(out, t)
	out = append(out, tasks...)
	return out, t
}

// AddSubtask creates a user-typed child under parentID with MEDIUM priority
// and forces the parent expanded so the child is visible. A stale parentID is
// a silent no-op: the input is returned unchanged with a nil task. Attaching
// to a task that itself has a parent is refused the same way, keeping the
// hierarchy one level deep.
func AddSubtask(tasks []*task.Task, parentID, text string, now time.Time, prefix string, idLen int) ([]*task.Task, *task.Task) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasks, nil
	}

	parent := find(tasks, parentID)
	if parent == nil || parent.ParentID != "" {
		return tasks, nil
	}

	child := &task.Task{
		ID:        newID(tasks, text, now, prefix, idLen),
		Text:      text,
		Priority:  task.PriorityMedium,
		CreatedAt: now,
		ParentID:  parentID,
	}

	expanded := true
	out := updateTask(tasks, parentID, func(p *task.Task) {
		p.Expanded = &expanded
	})
	out = append(out, child)
	return out, child
}

// ToggleCompleted flips completed on the matching task only. No cascade to
// children or parent.
func ToggleCompleted(tasks []*task.Task, id string) []*task.Task {
	return updateTask(tasks, id, func(t *task.Task) {
		t.Completed = !t.Completed
	})
}

// ToggleExpanded flips the expansion state, treating an unset value as
// expanded. The first toggle on a task that never had the field collapses it.
func ToggleExpanded(tasks []*task.Task, id string) []*task.Task {
	return updateTask(tasks, id, func(t *task.Task) {
		next := !t.IsExpanded()
		t.Expanded = &next
	})
}

// SetPriority replaces the priority on the matching task.
func SetPriority(tasks []*task.Task, id string, priority task.Priority) []*task.Task {
	if !priority.IsValid() {
		return tasks
	}
	return updateTask(tasks, id, func(t *task.Task) {
		t.Priority = priority
	})
}

// Delete removes the task with this id and every task whose ParentID equals
// it. The cascade is one level deep, matching the hierarchy.
func Delete(tasks []*task.Task, id string) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id || t.ParentID == id {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ReplaceChildren swaps the entire child set of parentID for fresh tasks
// built from suggestions, as a single collection transition. The parent is
// kept expanded. Two guards from the regeneration protocol:
//   - empty suggestions leave existing children untouched
//   - a parent deleted while generation was in flight makes this a no-op,
//     so a dead parent's children are never resurrected
//
// The second return reports whether the replacement was applied.
func ReplaceChildren(tasks []*task.Task, parentID string, suggestions []task.Suggestion, now time.Time, prefix string, idLen int) ([]*task.Task, bool) {
	usable := make([]task.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if strings.TrimSpace(s.Text) != "" {
			usable = append(usable, s)
		}
	}
	if len(usable) == 0 {
		return tasks, false
	}
	if find(tasks, parentID) == nil {
		return tasks, false
	}

	expanded := true
	out := make([]*task.Task, 0, len(tasks)+len(usable))
	for _, t := range tasks {
		if t.ParentID == parentID {
			continue
		}
		if t.ID == parentID {
			c := t.Clone()
			c.Expanded = &expanded
			t = c
		}
		out = append(out, t)
	}

	for _, s := range usable {
		priority := s.Priority
		if !priority.IsValid() {
			priority = task.PriorityMedium
		}
		out = append(out, &task.Task{
			ID:          newID(out, strings.TrimSpace(s.Text), now, prefix, idLen),
			Text:        strings.TrimSpace(s.Text),
			Priority:    priority,
			CreatedAt:   now,
			AIGenerated: true,
			ParentID:    parentID,
		})
	}

	return out, true
}
