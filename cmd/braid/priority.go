package main

import (
	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/task"
)

var priorityCmd = &cobra.Command{
	Use:     "priority <id> <low|medium|high>",
	Short:   "Change a task's priority",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := resolveTaskID(args[0])
		if err != nil {
			FatalError("%v", err)
		}
		priority, err := task.ParsePriority(args[1])
		if err != nil {
			FatalError("%v", err)
		}
		if err := taskStore.SetPriority(id, priority); err != nil {
			FatalError("%v", err)
		}

		t := taskStore.Get(id)
		if jsonOutput {
			outputJSON(t)
			return
		}
		successf("%s priority set to %s", id, priority)
	},
}

func init() {
	rootCmd.AddCommand(priorityCmd)
}
