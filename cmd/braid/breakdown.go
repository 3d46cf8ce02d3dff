package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/breakdown"
	"github.com/braidtask/braid/internal/config"
	"github.com/braidtask/braid/internal/debug"
	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/tree"
	"github.com/braidtask/braid/internal/ui"
)

var breakdownModel string

var breakdownCmd = &cobra.Command{
	Use:     "breakdown <id>",
	Short:   "Generate subtasks for a task with AI",
	GroupID: "ai",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := resolveTaskID(args[0])
		if err != nil {
			FatalError("%v", err)
		}

		model := breakdownModel
		if model == "" {
			model = config.DefaultAIModel()
		}

		gen, err := breakdown.NewAnthropicGenerator(config.APIKey(), model)
		if err != nil {
			FatalErrorWithHint(err.Error(),
				"set anthropic-api-key with: braid config set anthropic-api-key <key>")
		}

		if !debug.IsQuiet() {
			fmt.Fprintf(os.Stderr, "Breaking down %s with %s...\n", id, model)
		}

		syn := breakdown.NewSynchronizer(taskStore, gen)
		res, err := syn.Breakdown(cmd.Context(), id)
		if err != nil {
			FatalError("%v", err)
		}

		switch {
		case res.Applied:
			reportBreakdown(id, res.Suggestions)
		case res.Suggestions == 0:
			fmt.Println("No subtasks generated; existing subtasks kept.")
		default:
			fmt.Println("Task disappeared while generating; nothing changed.")
		}
	},
}

func init() {
	breakdownCmd.Flags().StringVar(&breakdownModel, "model", "", "Anthropic model (default from config)")
	rootCmd.AddCommand(breakdownCmd)
}

func reportBreakdown(id string, count int) {
	tr := tree.Build(taskStore.Snapshot(), task.FilterAll)
	kids := tr.Children(id)

	if jsonOutput {
		outputJSON(kids)
		return
	}

	successf("Created %d subtasks under %s", count, id)
	fmt.Println()
	fmt.Println(renderRootLine(taskStore.Get(id), tr))
	for i, kid := range kids {
		branch := ui.TreeBranch
		if i == len(kids)-1 {
			branch = ui.TreeLast
		}
		fmt.Println(branch + renderTaskLine(kid))
	}
}
