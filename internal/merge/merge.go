// Package merge resolves an externally supplied task collection into the
// current one using id-based deduplication.
package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/braidtask/braid/internal/task"
)

// ErrNothingNew reports that every incoming task already exists. Callers
// should treat it as information, not failure: the collection is unchanged.
var ErrNothingNew = errors.New("no new tasks to import")

// ValidationError rejects a malformed import batch before any of it applies.
type ValidationError struct {
	// Index is the 1-based position of the offending record.
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// Resolve merges incoming into existing:
//
//   - every incoming record needs a non-empty id and text, otherwise the
//     whole batch is rejected (no partial import of a malformed batch)
//   - records whose id is already present are dropped
//   - if nothing survives dedup, the result is ErrNothingNew and existing
//     comes back unchanged
//   - survivors are appended and the combined set re-sorted by creation
//     time, newest first, so raw snapshots stay consistent
//
// Resolve never rewrites a task already in existing and never fabricates
// ids. Incoming records are cloned before use, so the result shares no
// pointers with the caller's batch; clones pass through SetDefaults to fill
// omitted priorities.
func Resolve(existing, incoming []*task.Task) ([]*task.Task, error) {
	for i, t := range incoming {
		if t == nil {
			return existing, &ValidationError{Index: i + 1, Reason: "empty record"}
		}
		if strings.TrimSpace(t.ID) == "" {
			return existing, &ValidationError{Index: i + 1, Reason: "missing id"}
		}
		if strings.TrimSpace(t.Text) == "" {
			return existing, &ValidationError{Index: i + 1, Reason: "missing text"}
		}
	}

	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.ID] = true
	}

	fresh := make([]*task.Task, 0, len(incoming))
	for _, t := range incoming {
		if seen[t.ID] {
			continue
		}
		// Marking the id here also collapses duplicates within the batch
		// itself; the first occurrence wins.
		seen[t.ID] = true

		c := t.Clone()
		c.SetDefaults()
		if !c.Priority.IsValid() {
			c.Priority = task.PriorityMedium
		}
		fresh = append(fresh, c)
	}

	if len(fresh) == 0 {
		return existing, ErrNothingNew
	}

	merged := make([]*task.Task, 0, len(existing)+len(fresh))
	merged = append(merged, existing...)
	merged = append(merged, fresh...)
	task.SortByCreated(merged)
	return merged, nil
}
