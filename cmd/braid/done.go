package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/ui"
)

var doneCmd = &cobra.Command{
	Use:     "done <id>",
	Short:   "Toggle a task's completion",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := resolveTaskID(args[0])
		if err != nil {
			FatalError("%v", err)
		}
		if err := taskStore.ToggleCompleted(id); err != nil {
			FatalError("%v", err)
		}

		t := taskStore.Get(id)
		if jsonOutput {
			outputJSON(t)
			return
		}
		if t.Completed {
			successf("Completed: %s", t.Text)
		} else {
			fmt.Printf("%s Reopened: %s\n", ui.IconPending, t.Text)
		}
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
