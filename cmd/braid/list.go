package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/jsonl"
	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/timeparsing"
	"github.com/braidtask/braid/internal/tree"
	"github.com/braidtask/braid/internal/ui"
)

var (
	listFilter       string
	listCreatedSince string
	listWatch        bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks as a tree",
	GroupID: "tasks",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		filter, err := task.ParseFilter(listFilter)
		if err != nil {
			FatalError("%v", err)
		}

		var since time.Time
		if listCreatedSince != "" {
			since, err = timeparsing.ParseRelativeTime(listCreatedSince, time.Now())
			if err != nil {
				FatalError("%v", err)
			}
		}

		if listWatch {
			watchTasks(filter, since)
			return
		}
		displayTasks(taskStore.Snapshot(), filter, since)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "Filter tasks (all, active, completed)")
	listCmd.Flags().StringVar(&listCreatedSince, "created-since", "", `Only tasks created since (-1w, "3 days ago", 2026-01-02)`)
	listCmd.Flags().BoolVarP(&listWatch, "watch", "w", false, "Re-render whenever the snapshot file changes")
	rootCmd.AddCommand(listCmd)
}

// applyCreatedSince drops tasks created before the cutoff. With a zero
// cutoff the slice passes through untouched.
func applyCreatedSince(tasks []*task.Task, since time.Time) []*task.Task {
	if since.IsZero() {
		return tasks
	}
	kept := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.CreatedAt.Before(since) {
			kept = append(kept, t)
		}
	}
	return kept
}

func displayTasks(tasks []*task.Task, filter task.Filter, since time.Time) {
	tasks = applyCreatedSince(tasks, since)
	tr := tree.Build(tasks, filter)

	if jsonOutput {
		outputJSON(flattenTree(tr))
		return
	}

	if tr.Size() == 0 {
		fmt.Println(`No tasks. Add one with: braid add "Your first task"`)
		return
	}

	var active, completed int
	for _, t := range tasks {
		if !filter.Matches(t) {
			continue
		}
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	fmt.Println(ui.RenderHeader(fmt.Sprintf("Tasks (%d active, %d done)", active, completed)))
	fmt.Println()

	for _, root := range tr.Roots() {
		fmt.Println(renderRootLine(root, tr))
		if !root.IsExpanded() {
			continue
		}
		kids := tr.Children(root.ID)
		for i, kid := range kids {
			branch := ui.TreeBranch
			if i == len(kids)-1 {
				branch = ui.TreeLast
			}
			fmt.Println(branch + renderTaskLine(kid))
		}
	}
}

// renderTaskLine renders one task: status icon, text, priority tag, id,
// and the AI marker. Completed tasks drop the priority tag since the
// struck-through text already says everything.
func renderTaskLine(t *task.Task) string {
	var b strings.Builder

	if t.Completed {
		b.WriteString(ui.RenderDoneIcon())
		b.WriteString(" ")
		b.WriteString(ui.RenderDone(ui.TruncateText(t.Text, 80)))
	} else {
		b.WriteString(ui.PriorityStyle(t.Priority).Render(ui.IconPending))
		b.WriteString(" ")
		b.WriteString(ui.TruncateText(t.Text, 80))
		b.WriteString(" ")
		b.WriteString(ui.RenderPriority(t.Priority))
	}

	b.WriteString(" ")
	b.WriteString(ui.RenderMuted(t.ID))

	if t.AIGenerated {
		b.WriteString(" ")
		b.WriteString(ui.AIMarker())
	}
	return b.String()
}

// renderRootLine adds the subtask progress counter and, for collapsed
// parents, the marker standing in for the hidden children.
func renderRootLine(t *task.Task, tr *tree.Tree) string {
	line := renderTaskLine(t)
	done, total, ok := tr.Progress(t.ID)
	if !ok {
		return line
	}
	line += " " + ui.RenderMuted(fmt.Sprintf("[%d/%d]", done, total))
	if !t.IsExpanded() {
		line += " " + ui.RenderMuted(ui.IconCollapsed)
	}
	return line
}

// flattenTree returns tasks in display order (each root followed by its
// children) for --json output. Collapse state does not hide data here.
func flattenTree(tr *tree.Tree) []*task.Task {
	out := make([]*task.Task, 0, tr.Size())
	for _, root := range tr.Roots() {
		out = append(out, root)
		out = append(out, tr.Children(root.ID)...)
	}
	return out
}

// watchTasks re-renders the list whenever the snapshot file changes, until
// interrupted. The watch is on the directory because saves go through a
// temp file and rename, which shows up as a Create for the target name.
func watchTasks(filter task.Filter, since time.Time) {
	path := resolveDataPath()
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		FatalError("creating watcher: %v", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		FatalError("watching %s: %v", dir, err)
	}

	displayTasks(taskStore.Snapshot(), filter, since)
	fmt.Fprintf(os.Stderr, "\nWatching %s for changes... (Press Ctrl+C to exit)\n", base)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var debounceTimer *time.Timer
	const debounceDelay = 500 * time.Millisecond

	redraw := func() {
		tasks, err := jsonl.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reloading tasks: %v\n", err)
			return
		}
		fmt.Println()
		displayTasks(tasks, filter, since)
		fmt.Fprintf(os.Stderr, "\nWatching %s for changes... (Press Ctrl+C to exit)\n", base)
	}

	for {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nStopped watching.")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				// Debounce: editors and the save hook can fire several
				// events per logical change.
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDelay, redraw)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}
