package task

import (
	"testing"
	"time"
)

func ts(offset int) time.Time {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(offset) * time.Minute)
}

func TestCompareOrdersByPriorityThenRecency(t *testing.T) {
	oldHigh := &Task{ID: "t-a", Text: "old high", Priority: PriorityHigh, CreatedAt: ts(0)}
	newLow := &Task{ID: "t-b", Text: "new low", Priority: PriorityLow, CreatedAt: ts(10)}
	newMed := &Task{ID: "t-c", Text: "new med", Priority: PriorityMedium, CreatedAt: ts(10)}
	oldMed := &Task{ID: "t-d", Text: "old med", Priority: PriorityMedium, CreatedAt: ts(5)}

	tasks := []*Task{newLow, oldMed, oldHigh, newMed}
	SortForDisplay(tasks)

	want := []*Task{oldHigh, newMed, oldMed, newLow}
	for i := range want {
		if tasks[i] != want[i] {
			t.Fatalf("position %d = %s, want %s", i, tasks[i].ID, want[i].ID)
		}
	}
}

func TestCompareTotalOrderOnTies(t *testing.T) {
	// Same priority and timestamp: ID descending breaks the tie.
	a := &Task{ID: "t-aaa", Text: "a", Priority: PriorityMedium, CreatedAt: ts(0)}
	b := &Task{ID: "t-zzz", Text: "b", Priority: PriorityMedium, CreatedAt: ts(0)}

	if Compare(a, b) <= 0 {
		t.Error("t-zzz should sort before t-aaa on equal priority and time")
	}
	if Compare(b, a) >= 0 {
		t.Error("Compare must be antisymmetric")
	}
	if Compare(a, a) != 0 {
		t.Error("Compare(x, x) must be 0")
	}
}

func TestCompareIsStableAcrossRuns(t *testing.T) {
	tasks := []*Task{
		{ID: "t-3", Text: "c", Priority: PriorityLow, CreatedAt: ts(1)},
		{ID: "t-1", Text: "a", Priority: PriorityHigh, CreatedAt: ts(2)},
		{ID: "t-2", Text: "b", Priority: PriorityHigh, CreatedAt: ts(2)},
	}

	first := make([]string, 0, len(tasks))
	SortForDisplay(tasks)
	for _, tk := range tasks {
		first = append(first, tk.ID)
	}

	// Shuffle by hand and re-sort: result must be identical.
	tasks[0], tasks[2] = tasks[2], tasks[0]
	SortForDisplay(tasks)
	for i, tk := range tasks {
		if tk.ID != first[i] {
			t.Fatalf("order changed across runs: %v vs %v", first, tasks)
		}
	}
}

func TestSortByCreated(t *testing.T) {
	tasks := []*Task{
		{ID: "t-1", Text: "oldest", Priority: PriorityHigh, CreatedAt: ts(0)},
		{ID: "t-2", Text: "newest", Priority: PriorityLow, CreatedAt: ts(20)},
		{ID: "t-3", Text: "middle", Priority: PriorityMedium, CreatedAt: ts(10)},
	}

	SortByCreated(tasks)

	want := []string{"t-2", "t-3", "t-1"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, tasks[i].ID, id)
		}
	}
}
