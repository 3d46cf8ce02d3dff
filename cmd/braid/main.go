package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/config"
	"github.com/braidtask/braid/internal/debug"
	"github.com/braidtask/braid/internal/jsonl"
	"github.com/braidtask/braid/internal/store"
	"github.com/braidtask/braid/internal/task"
	"github.com/braidtask/braid/internal/telemetry"
	"github.com/braidtask/braid/internal/ui"
)

var (
	dataFlag    string
	jsonOutput  bool
	noColor     bool
	quietFlag   bool
	verboseFlag bool

	// taskStore is opened by PersistentPreRun for every command that
	// touches the collection.
	taskStore *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "braid",
	Short: "braid - hierarchical task tracker",
	Long: `braid is a local-first task tracker where tasks and their subtasks
stay woven together: one JSONL snapshot on disk, a two-level tree on
screen, and AI assistance for breaking big tasks into small ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
			fmt.Printf("braid version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)

		if err := config.Init(""); err != nil {
			WarnError("%v", err)
		}

		mode := config.ColorMode()
		if noColor {
			mode = "never"
		}
		ui.ApplyColorMode(mode)

		if err := telemetry.Init(cmd.Context(), "braid", Version); err != nil {
			WarnError("telemetry init failed: %v", err)
		}

		if isNoStoreCommand(cmd) {
			return
		}
		openStore()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "Snapshot path (default: ~/.braid/tasks.jsonl)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose debug output")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tasks", Title: "Working With Tasks:"},
		&cobra.Group{ID: "ai", Title: "AI Assistance:"},
		&cobra.Group{ID: "data", Title: "Data & Configuration:"},
	)
}

// noStoreCommands run without a snapshot on disk, so PersistentPreRun
// skips loading one for them. Checked against the whole parent chain so
// "config set" is covered by "config".
var noStoreCommands = map[string]bool{
	"version":    true,
	"config":     true,
	"help":       true,
	"completion": true,
}

func isNoStoreCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if noStoreCommands[c.Name()] {
			return true
		}
	}
	return false
}

func resolveDataPath() string {
	if dataFlag != "" {
		return dataFlag
	}
	return config.DataPath()
}

// openStore loads the snapshot and wires the store to persist every
// mutation back to the same path before the mutating call returns.
func openStore() {
	path := resolveDataPath()
	tasks, err := jsonl.Load(path)
	if err != nil {
		FatalError("%v", err)
	}

	hook := telemetry.WrapSaveHook(func(snapshot []*task.Task) error {
		return jsonl.Save(path, snapshot)
	})

	taskStore = store.New(tasks,
		store.WithSaveHook(hook),
		store.WithIDScheme(config.IDPrefix(), 0),
	)
	debug.Logf("store: loaded %d tasks from %s\n", taskStore.Len(), path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
