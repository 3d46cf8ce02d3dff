package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/ui"
)

type taskStats struct {
	Total       int            `json:"total"`
	Active      int            `json:"active"`
	Completed   int            `json:"completed"`
	AIGenerated int            `json:"aiGenerated"`
	Roots       int            `json:"roots"`
	Subtasks    int            `json:"subtasks"`
	ByPriority  map[string]int `json:"byPriority"`
}

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show task statistics",
	GroupID: "tasks",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stats := computeStats(taskStore.Snapshot())

		if jsonOutput {
			outputJSON(stats)
			return
		}

		fmt.Println(ui.RenderHeader("Task statistics"))
		fmt.Println()
		fmt.Printf("  Total:        %d\n", stats.Total)
		fmt.Printf("  Active:       %d\n", stats.Active)
		fmt.Printf("  Completed:    %d\n", stats.Completed)
		fmt.Printf("  AI-generated: %d\n", stats.AIGenerated)
		fmt.Printf("  Top-level:    %d\n", stats.Roots)
		fmt.Printf("  Subtasks:     %d\n", stats.Subtasks)
		fmt.Println()
		fmt.Printf("  %s %d  %s %d  %s %d\n",
			ui.RenderPriority(task.PriorityHigh), stats.ByPriority[string(task.PriorityHigh)],
			ui.RenderPriority(task.PriorityMedium), stats.ByPriority[string(task.PriorityMedium)],
			ui.RenderPriority(task.PriorityLow), stats.ByPriority[string(task.PriorityLow)])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func computeStats(tasks []*task.Task) taskStats {
	stats := taskStats{ByPriority: make(map[string]int)}
	for _, t := range tasks {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Active++
		}
		if t.AIGenerated {
			stats.AIGenerated++
		}
		if t.ParentID == "" {
			stats.Roots++
		} else {
			stats.Subtasks++
		}
		stats.ByPriority[string(t.Priority)]++
	}
	return stats
}
