package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/backup"
	"github.com/braidtask/braid/internal/merge"
	"github.com/braidtask/braid/internal/task"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:     "import <file>",
	Short:   "Import tasks from a JSON or JSONL backup",
	GroupID: "data",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		incoming, err := backup.ParseFile(args[0])
		if err != nil {
			FatalError("%v", err)
		}

		if importDryRun {
			reportDryRun(incoming)
			return
		}

		added, err := taskStore.Merge(incoming)
		if errors.Is(err, merge.ErrNothingNew) {
			fmt.Printf("Nothing to import: all %d tasks already exist.\n", len(incoming))
			return
		}
		var invalid *merge.ValidationError
		if errors.As(err, &invalid) {
			FatalError("import rejected: %v", invalid)
		}
		if err != nil {
			FatalError("%v", err)
		}

		skipped := len(incoming) - added
		if jsonOutput {
			outputJSON(map[string]int{"imported": added, "skipped": skipped})
			return
		}
		successf("Imported %d tasks (%d duplicates skipped)", added, skipped)
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without changing anything")
	rootCmd.AddCommand(importCmd)
}

// reportDryRun resolves against a copy of the collection, so the store
// and the snapshot file stay untouched.
func reportDryRun(incoming []*task.Task) {
	existing := taskStore.Snapshot()
	merged, err := merge.Resolve(existing, incoming)
	if errors.Is(err, merge.ErrNothingNew) {
		fmt.Printf("Dry run: nothing to import, all %d tasks already exist.\n", len(incoming))
		return
	}
	var invalid *merge.ValidationError
	if errors.As(err, &invalid) {
		FatalError("import rejected: %v", invalid)
	}
	if err != nil {
		FatalError("%v", err)
	}

	added := len(merged) - len(existing)
	skipped := len(incoming) - added
	if jsonOutput {
		outputJSON(map[string]int{"wouldImport": added, "wouldSkip": skipped})
		return
	}
	fmt.Printf("Dry run: would import %d tasks and skip %d duplicates.\n", added, skipped)
}
