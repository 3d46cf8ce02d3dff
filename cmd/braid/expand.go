package main

import (
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:     "expand <id>",
	Short:   "Show a task's subtasks in list output",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setExpanded(args[0], true)
	},
}

var collapseCmd = &cobra.Command{
	Use:     "collapse <id>",
	Short:   "Hide a task's subtasks in list output",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setExpanded(args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(collapseCmd)
}

func setExpanded(input string, expanded bool) {
	id, err := resolveTaskID(input)
	if err != nil {
		FatalError("%v", err)
	}
	if err := taskStore.SetExpanded(id, expanded); err != nil {
		FatalError("%v", err)
	}
	if jsonOutput {
		outputJSON(taskStore.Get(id))
		return
	}
	if expanded {
		successf("Expanded %s", id)
	} else {
		successf("Collapsed %s", id)
	}
}
