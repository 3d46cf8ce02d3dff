package tree

import (
	"testing"
	"time"

	"github.com/braidtask/braid/internal/task"
)

func at(offset int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute)
}

// fixture: two parents with children, one standalone, one orphan.
func fixture() []*task.Task {
	return []*task.Task{
		{ID: "t-p1", Text: "Plan trip", Priority: task.PriorityHigh, CreatedAt: at(0)},
		{ID: "t-c1", Text: "Book flight", Priority: task.PriorityMedium, CreatedAt: at(1), ParentID: "t-p1", Completed: true},
		{ID: "t-c2", Text: "Pack bags", Priority: task.PriorityLow, CreatedAt: at(2), ParentID: "t-p1"},
		{ID: "t-p2", Text: "Fix sink", Priority: task.PriorityLow, CreatedAt: at(3), Completed: true},
		{ID: "t-c3", Text: "Buy washer", Priority: task.PriorityMedium, CreatedAt: at(4), ParentID: "t-p2"},
		{ID: "t-solo", Text: "Water plants", Priority: task.PriorityMedium, CreatedAt: at(5)},
		{ID: "t-lost", Text: "Orphaned child", Priority: task.PriorityLow, CreatedAt: at(6), ParentID: "t-nope"},
	}
}

func rootIDs(tr *Tree) []string {
	out := make([]string, 0, len(tr.Roots()))
	for _, r := range tr.Roots() {
		out = append(out, r.ID)
	}
	return out
}

func TestPartitionIsExact(t *testing.T) {
	tasks := fixture()
	tr := Build(tasks, task.FilterAll)

	// Every task appears exactly once across roots and all child groups.
	seen := make(map[string]int)
	for _, r := range tr.Roots() {
		seen[r.ID]++
		for _, c := range tr.Children(r.ID) {
			seen[c.ID]++
		}
	}
	if len(seen) != len(tasks) {
		t.Fatalf("view covers %d tasks, want %d", len(seen), len(tasks))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("task %s appears %d times", id, n)
		}
	}
	if tr.Size() != len(tasks) {
		t.Errorf("Size() = %d, want %d", tr.Size(), len(tasks))
	}
}

func TestOrphanBecomesRoot(t *testing.T) {
	tr := Build(fixture(), task.FilterAll)

	for _, r := range tr.Roots() {
		if r.ID == "t-lost" {
			return
		}
	}
	t.Error("task with missing parent was not promoted to root")
}

func TestFilteredParentPromotesChild(t *testing.T) {
	// ACTIVE filter drops t-p2 (completed); its active child t-c3 must
	// surface as a root rather than vanish.
	tr := Build(fixture(), task.FilterActive)

	var isRoot bool
	for _, r := range tr.Roots() {
		if r.ID == "t-c3" {
			isRoot = true
		}
		if r.ID == "t-p2" {
			t.Error("completed parent passed the ACTIVE filter")
		}
	}
	if !isRoot {
		t.Error("child of filtered-out parent did not become a root")
	}
	if kids := tr.Children("t-p2"); len(kids) != 0 {
		t.Errorf("filtered-out parent still has %d children", len(kids))
	}
}

func TestCompletedFilter(t *testing.T) {
	tr := Build(fixture(), task.FilterCompleted)

	want := map[string]bool{"t-c1": true, "t-p2": true}
	roots := rootIDs(tr)
	if len(roots) != len(want) {
		t.Fatalf("roots = %v, want exactly %v", roots, want)
	}
	for _, id := range roots {
		if !want[id] {
			t.Errorf("unexpected root %s in COMPLETED view", id)
		}
	}
}

func TestRootOrdering(t *testing.T) {
	tr := Build(fixture(), task.FilterAll)

	// HIGH first; equal priorities newest-first.
	got := rootIDs(tr)
	want := []string{"t-p1", "t-solo", "t-lost", "t-p2"}
	if len(got) != len(want) {
		t.Fatalf("roots = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("roots = %v, want %v", got, want)
		}
	}
}

func TestChildOrdering(t *testing.T) {
	tr := Build(fixture(), task.FilterAll)

	kids := tr.Children("t-p1")
	if len(kids) != 2 {
		t.Fatalf("child count = %d, want 2", len(kids))
	}
	// MEDIUM before LOW regardless of recency.
	if kids[0].ID != "t-c1" || kids[1].ID != "t-c2" {
		t.Errorf("children = [%s %s], want [t-c1 t-c2]", kids[0].ID, kids[1].ID)
	}
}

func TestProgress(t *testing.T) {
	tr := Build(fixture(), task.FilterAll)

	done, total, ok := tr.Progress("t-p1")
	if !ok {
		t.Fatal("Progress(t-p1) ok = false, want true")
	}
	if done != 1 || total != 2 {
		t.Errorf("Progress(t-p1) = (%d, %d), want (1, 2)", done, total)
	}

	if _, _, ok := tr.Progress("t-solo"); ok {
		t.Error("childless task reported progress")
	}
	if _, _, ok := tr.Progress("t-nope"); ok {
		t.Error("unknown id reported progress")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	// Equal priority and createdAt: the id tiebreak keeps repeated builds
	// identical even when input order varies.
	tasks := []*task.Task{
		{ID: "t-b", Text: "b", Priority: task.PriorityMedium, CreatedAt: at(0)},
		{ID: "t-a", Text: "a", Priority: task.PriorityMedium, CreatedAt: at(0)},
		{ID: "t-c", Text: "c", Priority: task.PriorityMedium, CreatedAt: at(0)},
	}

	first := rootIDs(Build(tasks, task.FilterAll))

	tasks[0], tasks[2] = tasks[2], tasks[0]
	second := rootIDs(Build(tasks, task.FilterAll))

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ordering not deterministic: %v vs %v", first, second)
		}
	}
}

func TestEmptyCollection(t *testing.T) {
	tr := Build(nil, task.FilterAll)
	if len(tr.Roots()) != 0 || tr.Size() != 0 {
		t.Error("empty collection produced a non-empty tree")
	}
}
