// Package task defines the core data model for the braid task tracker.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a single tracked task. The hierarchy is at most one level
// deep: a task either has no parent (top-level) or names a top-level task in
// ParentID. Depth is enforced at creation, not here.
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	AIGenerated bool      `json:"isAiGenerated"`
	ParentID    string    `json:"parentId,omitempty"`
	// Expanded controls whether subtasks render beneath this task.
	// nil counts as expanded; only an explicit false collapses.
	Expanded *bool `json:"isExpanded,omitempty"`
}

// IsExpanded reports whether the task's subtasks should be shown.
func (t *Task) IsExpanded() bool {
	return t.Expanded == nil || *t.Expanded
}

// Clone returns a copy of the task that shares no pointers with the original.
func (t *Task) Clone() *Task {
	c := *t
	if t.Expanded != nil {
		v := *t.Expanded
		c.Expanded = &v
	}
	return &c
}

// Validate checks if the task has valid field values
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("text is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", t.Priority)
	}
	return nil
}

// SetDefaults applies default values for fields omitted during import.
// Call this after json.Unmarshal to ensure missing fields have proper defaults:
//   - Priority: defaults to MEDIUM if empty
//
// This enables smaller snapshot output by using omitempty where possible.
func (t *Task) SetDefaults() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
}

// Suggestion is a proposed subtask produced by a breakdown generator. It has
// no identity yet; the store assigns IDs when the suggestions are applied.
type Suggestion struct {
	Text     string
	Priority Priority
}

// Priority represents how urgent a task is
type Priority string

// Task priority constants
const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// IsValid checks if the priority value is valid
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank returns the sort weight of the priority; higher means more urgent.
// Unknown values rank below LOW so malformed data sinks instead of failing.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority converts user input to a Priority. Accepts full names in any
// case plus the short forms l/m/h.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH", "H":
		return PriorityHigh, nil
	case "MEDIUM", "MED", "M":
		return PriorityMedium, nil
	case "LOW", "L":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority %q (valid: low, medium, high)", s)
}

// Filter selects which tasks a tree view includes
type Filter string

// Tree view filter constants
const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// IsValid checks if the filter value is valid
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// Matches reports whether the task passes the filter. Unknown filters match
// everything, same as FilterAll.
func (f Filter) Matches(t *Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// ParseFilter converts user input to a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid filter %q (valid: all, active, completed)", s)
	}
	return f, nil
}
