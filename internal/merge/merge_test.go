package merge

import (
	"errors"
	"testing"
	"time"

	"github.com/braidtask/braid/internal/task"
)

func mkTask(id, text string, offset int) *task.Task {
	return &task.Task{
		ID:        id,
		Text:      text,
		Priority:  task.PriorityMedium,
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute),
	}
}

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestResolveAddsOnlyNewIDs(t *testing.T) {
	existing := []*task.Task{mkTask("t-1", "existing", 0)}
	incoming := []*task.Task{
		mkTask("t-1", "duplicate of existing", 1),
		mkTask("t-2", "genuinely new", 2),
	}

	merged, err := Resolve(existing, incoming)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("merged size = %d, want 2 (got %v)", len(merged), ids(merged))
	}

	// The surviving t-1 must be the existing record, not the incoming one.
	for _, tk := range merged {
		if tk.ID == "t-1" && tk.Text != "existing" {
			t.Errorf("existing task was rewritten: %q", tk.Text)
		}
	}
}

func TestResolveNothingNew(t *testing.T) {
	existing := []*task.Task{mkTask("t-1", "a", 0), mkTask("t-2", "b", 1)}
	incoming := []*task.Task{mkTask("t-1", "a again", 5), mkTask("t-2", "b again", 6)}

	merged, err := Resolve(existing, incoming)
	if !errors.Is(err, ErrNothingNew) {
		t.Fatalf("Resolve() error = %v, want ErrNothingNew", err)
	}
	if len(merged) != len(existing) {
		t.Errorf("collection changed on nothing-new: %v", ids(merged))
	}
}

func TestResolveIdempotent(t *testing.T) {
	existing := []*task.Task{mkTask("t-1", "a", 0)}
	incoming := []*task.Task{mkTask("t-2", "b", 1), mkTask("t-3", "c", 2)}

	once, err := Resolve(existing, incoming)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}

	twice, err := Resolve(once, incoming)
	if !errors.Is(err, ErrNothingNew) {
		t.Fatalf("second Resolve() error = %v, want ErrNothingNew", err)
	}

	onceIDs, twiceIDs := ids(once), ids(twice)
	if len(onceIDs) != len(twiceIDs) {
		t.Fatalf("id sets differ: %v vs %v", onceIDs, twiceIDs)
	}
	for i := range onceIDs {
		if onceIDs[i] != twiceIDs[i] {
			t.Fatalf("id sets differ: %v vs %v", onceIDs, twiceIDs)
		}
	}
}

func TestResolveValidation(t *testing.T) {
	existing := []*task.Task{mkTask("t-1", "a", 0)}

	tests := []struct {
		name      string
		incoming  []*task.Task
		wantIndex int
	}{
		{"missing id", []*task.Task{mkTask("", "no id", 1)}, 1},
		{"missing text", []*task.Task{mkTask("t-2", "ok", 1), mkTask("t-3", "", 2)}, 2},
		{"whitespace text", []*task.Task{mkTask("t-2", "   ", 1)}, 1},
		{"nil record", []*task.Task{mkTask("t-2", "ok", 1), nil}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Resolve(existing, tt.incoming)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Resolve() error = %v, want *ValidationError", err)
			}
			if verr.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", verr.Index, tt.wantIndex)
			}
			if len(merged) != len(existing) {
				t.Error("collection mutated on rejected batch")
			}
		})
	}
}

func TestResolveCollapsesBatchDuplicates(t *testing.T) {
	incoming := []*task.Task{
		mkTask("t-1", "first occurrence", 0),
		mkTask("t-1", "second occurrence", 1),
	}

	merged, err := Resolve(nil, incoming)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("merged size = %d, want 1", len(merged))
	}
	if merged[0].Text != "first occurrence" {
		t.Errorf("wrong duplicate won: %q", merged[0].Text)
	}
}

func TestResolveSortsByCreatedDesc(t *testing.T) {
	existing := []*task.Task{mkTask("t-old", "old", 0)}
	incoming := []*task.Task{mkTask("t-new", "new", 30), mkTask("t-mid", "mid", 15)}

	merged, err := Resolve(existing, incoming)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []string{"t-new", "t-mid", "t-old"}
	got := ids(merged)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestResolveClonesIncoming(t *testing.T) {
	incoming := []*task.Task{mkTask("t-1", "original", 0)}

	merged, err := Resolve(nil, incoming)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	incoming[0].Text = "mutated after the fact"
	if merged[0].Text != "original" {
		t.Error("merged result shares pointers with the incoming batch")
	}
}

func TestResolveDefaultsMissingPriority(t *testing.T) {
	in := mkTask("t-1", "no priority", 0)
	in.Priority = ""

	merged, err := Resolve(nil, []*task.Task{in})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if merged[0].Priority != task.PriorityMedium {
		t.Errorf("priority = %q, want MEDIUM", merged[0].Priority)
	}
}
