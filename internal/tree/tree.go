// Package tree derives the two-level display tree from a task collection.
package tree

import (
	"github.com/braidtask/braid/internal/task"
)

// Tree is the derived presentation structure: ordered roots plus a lookup
// from parent id to its ordered children. It is rebuilt from a snapshot on
// every read and holds no state between calls.
type Tree struct {
	roots    []*task.Task
	children map[string][]*task.Task
}

// Build filters the collection, partitions it into roots and child groups,
// and sorts every group with the shared display comparator.
//
// Root classification is explicit: a task is a root when it has no parent,
// or when its parent is not part of the filtered set. The second clause is
// the orphan self-healing rule; a child becomes a root view of its own when
// its parent is deleted out from under it or filtered out of the current
// view. That is intentional behavior, not a data fault.
func Build(tasks []*task.Task, filter task.Filter) *Tree {
	filtered := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Matches(t) {
			filtered = append(filtered, t)
		}
	}

	present := make(map[string]bool, len(filtered))
	for _, t := range filtered {
		present[t.ID] = true
	}

	tr := &Tree{children: make(map[string][]*task.Task)}
	for _, t := range filtered {
		if t.ParentID == "" || !present[t.ParentID] {
			tr.roots = append(tr.roots, t)
			continue
		}
		tr.children[t.ParentID] = append(tr.children[t.ParentID], t)
	}

	task.SortForDisplay(tr.roots)
	for id := range tr.children {
		task.SortForDisplay(tr.children[id])
	}

	return tr
}

// Roots returns the ordered top-level sequence for the view.
func (t *Tree) Roots() []*task.Task {
	return t.roots
}

// Children returns the ordered children of a parent, or nil when it has none
// in this view.
func (t *Tree) Children(parentID string) []*task.Task {
	return t.children[parentID]
}

// Progress reports (completed, total) over a parent's children. ok is false
// when the parent has no children in this view; such parents get no progress
// indicator.
func (t *Tree) Progress(parentID string) (done, total int, ok bool) {
	kids := t.children[parentID]
	if len(kids) == 0 {
		return 0, 0, false
	}
	for _, k := range kids {
		if k.Completed {
			done++
		}
	}
	return done, len(kids), true
}

// Size returns how many tasks the filtered view holds across roots and all
// child groups.
func (t *Tree) Size() int {
	n := len(t.roots)
	for _, kids := range t.children {
		n += len(kids)
	}
	return n
}
