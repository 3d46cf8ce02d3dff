package store

import (
	"testing"
	"time"

	"github.com/braidtask/braid/internal/task"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(offset int) time.Time {
	return testTime.Add(time.Duration(offset) * time.Minute)
}

func seed() []*task.Task {
	return []*task.Task{
		{ID: "t-par", Text: "Plan trip", Priority: task.PriorityHigh, CreatedAt: at(0)},
		{ID: "t-kid", Text: "Book flight", Priority: task.PriorityMedium, CreatedAt: at(1), ParentID: "t-par"},
		{ID: "t-solo", Text: "Water plants", Priority: task.PriorityLow, CreatedAt: at(2)},
	}
}

func TestAddPrepends(t *testing.T) {
	tasks := seed()
	next, created := Add(tasks, "New task", task.PriorityHigh, false, at(5), "t", 4)

	if created == nil {
		t.Fatal("Add returned nil task")
	}
	if next[0] != created {
		t.Error("new task is not at the head of the collection")
	}
	if len(next) != len(tasks)+1 {
		t.Errorf("collection size = %d, want %d", len(next), len(tasks)+1)
	}
	if created.Completed || created.AIGenerated || created.ParentID != "" {
		t.Errorf("unexpected defaults on created task: %+v", created)
	}
	if created.CreatedAt != at(5) {
		t.Errorf("createdAt = %v, want %v", created.CreatedAt, at(5))
	}
}

func TestAddBlankTextIsNoOp(t *testing.T) {
	tasks := seed()
	next, created := Add(tasks, "   ", task.PriorityHigh, false, at(5), "t", 4)
	if created != nil {
		t.Fatal("Add accepted blank text")
	}
	if len(next) != len(tasks) {
		t.Error("collection changed on rejected add")
	}
}

func TestAddDoesNotMutateInput(t *testing.T) {
	tasks := seed()
	before := len(tasks)
	Add(tasks, "New task", task.PriorityLow, false, at(5), "t", 4)
	if len(tasks) != before {
		t.Error("input slice length changed")
	}
	if tasks[0].ID != "t-par" {
		t.Error("input slice head changed")
	}
}

func TestAddSubtask(t *testing.T) {
	tasks := seed()
	next, child := AddSubtask(tasks, "t-par", "Pack bags", at(9), "t", 4)

	if child == nil {
		t.Fatal("AddSubtask returned nil child")
	}
	if child.ParentID != "t-par" {
		t.Errorf("ParentID = %q, want t-par", child.ParentID)
	}
	if child.Priority != task.PriorityMedium {
		t.Errorf("Priority = %q, want MEDIUM", child.Priority)
	}
	if child.AIGenerated {
		t.Error("manual subtask marked AI-generated")
	}

	var parent *task.Task
	for _, tk := range next {
		if tk.ID == "t-par" {
			parent = tk
		}
	}
	if parent.Expanded == nil || !*parent.Expanded {
		t.Error("parent not forced expanded")
	}

	// The original parent record must be untouched.
	if tasks[0].Expanded != nil {
		t.Error("input parent was mutated")
	}
}

func TestAddSubtaskStaleParent(t *testing.T) {
	tasks := seed()
	next, child := AddSubtask(tasks, "t-gone", "orphan", at(9), "t", 4)
	if child != nil {
		t.Fatal("AddSubtask created a child under a missing parent")
	}
	if len(next) != len(tasks) {
		t.Error("collection changed on stale parent")
	}
}

func TestAddSubtaskRefusesGrandchildren(t *testing.T) {
	tasks := seed()
	next, child := AddSubtask(tasks, "t-kid", "too deep", at(9), "t", 4)
	if child != nil {
		t.Fatal("AddSubtask attached a child to a child")
	}
	if len(next) != len(tasks) {
		t.Error("collection changed on refused nesting")
	}
}

func TestToggleCompleted(t *testing.T) {
	tasks := seed()
	next := ToggleCompleted(tasks, "t-kid")

	for _, tk := range next {
		want := tk.ID == "t-kid"
		if tk.Completed != want {
			t.Errorf("task %s completed = %v, want %v", tk.ID, tk.Completed, want)
		}
	}
	// No cascade: parent stays active.
	if tasks[1].Completed {
		t.Error("input task was mutated")
	}

	back := ToggleCompleted(next, "t-kid")
	for _, tk := range back {
		if tk.Completed {
			t.Errorf("task %s still completed after second toggle", tk.ID)
		}
	}
}

func TestToggleExpandedFirstToggleCollapses(t *testing.T) {
	tasks := seed()
	next := ToggleExpanded(tasks, "t-par")

	var parent *task.Task
	for _, tk := range next {
		if tk.ID == "t-par" {
			parent = tk
		}
	}
	if parent.IsExpanded() {
		t.Error("first toggle from unset state should collapse")
	}

	again := ToggleExpanded(next, "t-par")
	for _, tk := range again {
		if tk.ID == "t-par" && !tk.IsExpanded() {
			t.Error("second toggle should expand again")
		}
	}
}

func TestSetPriority(t *testing.T) {
	tasks := seed()
	next := SetPriority(tasks, "t-solo", task.PriorityHigh)

	for _, tk := range next {
		if tk.ID == "t-solo" && tk.Priority != task.PriorityHigh {
			t.Errorf("priority = %q, want HIGH", tk.Priority)
		}
	}
	if tasks[2].Priority != task.PriorityLow {
		t.Error("input task was mutated")
	}
}

func TestDeleteCascadesExactlyOneLevel(t *testing.T) {
	tasks := seed()
	next := Delete(tasks, "t-par")

	if len(next) != 1 {
		t.Fatalf("collection size = %d, want 1", len(next))
	}
	if next[0].ID != "t-solo" {
		t.Errorf("survivor = %s, want t-solo", next[0].ID)
	}
}

func TestDeleteLeafRemovesOnlyLeaf(t *testing.T) {
	tasks := seed()
	next := Delete(tasks, "t-kid")

	if len(next) != 2 {
		t.Fatalf("collection size = %d, want 2", len(next))
	}
	for _, tk := range next {
		if tk.ID == "t-kid" {
			t.Error("deleted task still present")
		}
	}
}

func TestDeleteUnknownIDRemovesNothing(t *testing.T) {
	tasks := seed()
	next := Delete(tasks, "t-gone")
	if len(next) != len(tasks) {
		t.Errorf("collection size = %d, want %d", len(next), len(tasks))
	}
}

func TestReplaceChildrenAtomicSwap(t *testing.T) {
	tasks := seed()
	suggestions := []task.Suggestion{
		{Text: "Research hotels", Priority: task.PriorityHigh},
		{Text: "Renew passport", Priority: task.PriorityMedium},
		{Text: "Buy guidebook"},
	}

	next, applied := ReplaceChildren(tasks, "t-par", suggestions, at(30), "t", 4)
	if !applied {
		t.Fatal("replacement did not apply")
	}

	var children []*task.Task
	for _, tk := range next {
		if tk.ParentID == "t-par" {
			children = append(children, tk)
		}
	}
	if len(children) != 3 {
		t.Fatalf("child count = %d, want 3", len(children))
	}
	for _, c := range children {
		if c.ID == "t-kid" {
			t.Error("prior child survived regeneration")
		}
		if !c.AIGenerated {
			t.Errorf("child %s not marked AI-generated", c.ID)
		}
		if c.Completed {
			t.Errorf("child %s created completed", c.ID)
		}
	}

	// Suggestion without a priority falls back to MEDIUM.
	var guidebook *task.Task
	for _, c := range children {
		if c.Text == "Buy guidebook" {
			guidebook = c
		}
	}
	if guidebook == nil || guidebook.Priority != task.PriorityMedium {
		t.Error("missing suggestion priority did not default to MEDIUM")
	}

	// Unrelated tasks untouched, parent still present and expanded.
	var parent, solo *task.Task
	for _, tk := range next {
		switch tk.ID {
		case "t-par":
			parent = tk
		case "t-solo":
			solo = tk
		}
	}
	if parent == nil || !parent.IsExpanded() {
		t.Error("parent missing or collapsed after regeneration")
	}
	if solo == nil || solo.Text != "Water plants" {
		t.Error("unrelated task altered by regeneration")
	}
}

func TestReplaceChildrenEmptySuggestionsKeepsExisting(t *testing.T) {
	tasks := seed()

	next, applied := ReplaceChildren(tasks, "t-par", nil, at(30), "t", 4)
	if applied {
		t.Fatal("empty suggestion list applied a replacement")
	}
	if len(next) != len(tasks) {
		t.Error("collection changed on empty suggestions")
	}

	blankOnly := []task.Suggestion{{Text: "  "}, {Text: ""}}
	next, applied = ReplaceChildren(tasks, "t-par", blankOnly, at(30), "t", 4)
	if applied {
		t.Fatal("all-blank suggestions applied a replacement")
	}
	for _, tk := range next {
		if tk.ID == "t-kid" {
			return
		}
	}
	t.Error("existing child lost on all-blank suggestions")
}

func TestReplaceChildrenDeletedParentIsNoOp(t *testing.T) {
	tasks := Delete(seed(), "t-par")

	next, applied := ReplaceChildren(tasks, "t-par", []task.Suggestion{{Text: "ghost"}}, at(30), "t", 4)
	if applied {
		t.Fatal("replacement applied for a deleted parent")
	}
	if len(next) != len(tasks) {
		t.Error("deleted parent's children were resurrected")
	}
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	tasks := seed()
	// Same text and timestamp for every child forces the nonce path.
	suggestions := []task.Suggestion{
		{Text: "same"}, {Text: "same"}, {Text: "same"},
	}

	next, applied := ReplaceChildren(tasks, "t-par", suggestions, at(30), "t", 4)
	if !applied {
		t.Fatal("replacement did not apply")
	}

	seen := make(map[string]bool)
	for _, tk := range next {
		if seen[tk.ID] {
			t.Fatalf("duplicate id %s in collection", tk.ID)
		}
		seen[tk.ID] = true
	}
}
