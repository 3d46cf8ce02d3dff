package task

import (
	"cmp"
	"slices"
)

// Compare provides the display ordering for sibling tasks.
// Primary sort: priority (HIGH before MEDIUM before LOW).
// Secondary sort: creation time, newest first.
// Tertiary sort: ID descending, so ties stay deterministic even when two
// tasks share a timestamp (bulk imports, AI batches).
func Compare(a, b *Task) int {
	if result := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); result != 0 {
		return result
	}
	if result := b.CreatedAt.Compare(a.CreatedAt); result != 0 {
		return result
	}
	return cmp.Compare(b.ID, a.ID)
}

// SortForDisplay sorts tasks in place using Compare.
func SortForDisplay(tasks []*Task) {
	slices.SortFunc(tasks, Compare)
}

// SortByCreated sorts tasks in place by creation time, newest first, with the
// same ID tiebreak as Compare. Used to renormalize merged snapshots.
func SortByCreated(tasks []*Task) {
	slices.SortFunc(tasks, func(a, b *Task) int {
		if result := b.CreatedAt.Compare(a.CreatedAt); result != 0 {
			return result
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
