package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/tree"
	"github.com/braidtask/braid/internal/ui"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task and its subtasks",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := resolveTaskID(args[0])
		if err != nil {
			FatalError("%v", err)
		}
		t := taskStore.Get(id)
		kids := len(tree.Build(taskStore.Snapshot(), task.FilterAll).Children(id))

		if !deleteForce && !confirmDelete(t.Text, kids) {
			fmt.Fprintln(os.Stderr, "Deletion cancelled.")
			return
		}

		removed, err := taskStore.Delete(id)
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"deleted": id, "removed": removed})
			return
		}
		if removed == 1 {
			successf("Deleted 1 task")
		} else {
			successf("Deleted %d tasks", removed)
		}
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func confirmDelete(text string, kids int) bool {
	title := fmt.Sprintf("Delete %q?", ui.TruncateText(text, 50))
	if kids == 1 {
		title = fmt.Sprintf("Delete %q and its subtask?", ui.TruncateText(text, 50))
	} else if kids > 1 {
		title = fmt.Sprintf("Delete %q and its %d subtasks?", ui.TruncateText(text, 50), kids)
	}

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Deletion cancelled.")
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
	return confirmed
}
