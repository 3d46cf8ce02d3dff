package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/backup"
)

var (
	exportOutput string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export all tasks to a JSON backup",
	GroupID: "data",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		tasks := taskStore.Snapshot()

		if exportStdout {
			if err := backup.Export(os.Stdout, tasks); err != nil {
				FatalError("%v", err)
			}
			return
		}

		path := exportOutput
		if path == "" {
			path = backup.Filename(time.Now())
		}
		if err := backup.ExportFile(path, tasks); err != nil {
			FatalError("%v", err)
		}
		successf("Exported %d tasks to %s", len(tasks), path)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Backup file path (default: braid-backup-<date>.json)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the backup to stdout")
	rootCmd.AddCommand(exportCmd)
}
