package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/config"
	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/templates"
	"github.com/braidtask/braid/internal/tree"
	"github.com/braidtask/braid/internal/ui"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Short:   "Create tasks from reusable templates",
	GroupID: "tasks",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		all, err := templates.All(config.TemplatesPath(""))
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(all)
			return
		}

		names := make([]string, 0, len(all))
		for name := range all {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			tmpl := all[name]
			marker := ""
			if !templates.IsBuiltin(name) {
				marker = " (user)"
			}
			fmt.Printf("%s%s - %s %s\n",
				name, marker, tmpl.Description,
				ui.RenderMuted(fmt.Sprintf("(%d subtasks)", len(tmpl.Subtasks))))
		}
	},
}

var templateApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Create a task with subtasks from a template",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tmpl, err := templates.Get(args[0], config.TemplatesPath(""))
		if err != nil {
			FatalError("%v", err)
		}

		created, err := templates.Apply(taskStore, *tmpl)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(created)
			return
		}

		successf("Created %d tasks from template %s", len(created), args[0])
		if len(created) == 0 {
			return
		}
		fmt.Println()
		tr := tree.Build(taskStore.Snapshot(), task.FilterAll)
		parent := created[0]
		fmt.Println(renderRootLine(taskStore.Get(parent.ID), tr))
		kids := tr.Children(parent.ID)
		for i, kid := range kids {
			branch := ui.TreeBranch
			if i == len(kids)-1 {
				branch = ui.TreeLast
			}
			fmt.Println(branch + renderTaskLine(kid))
		}
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateApplyCmd)
	rootCmd.AddCommand(templateCmd)
}
