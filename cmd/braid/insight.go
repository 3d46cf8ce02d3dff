package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/config"
	"github.com/braidtask/braid/internal/debug"
	"github.com/braidtask/braid/internal/insight"
	"github.com/braidtask/braid/internal/ui"
)

var insightModel string

var insightCmd = &cobra.Command{
	Use:     "insight",
	Short:   "Get an AI read on your task load",
	GroupID: "ai",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		model := insightModel
		if model == "" {
			model = config.DefaultAIModel()
		}

		gen, err := insight.NewAnthropicInsight(config.APIKey(), model)
		if err != nil {
			FatalErrorWithHint(err.Error(),
				"set anthropic-api-key with: braid config set anthropic-api-key <key>")
		}

		active, completed := taskStore.Counts()
		if !debug.IsQuiet() {
			fmt.Fprintln(os.Stderr, "Thinking...")
		}

		text, err := gen.GenerateInsight(cmd.Context(), active, completed)
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"insight":   text,
				"active":    active,
				"completed": completed,
			})
			return
		}
		fmt.Println(strings.TrimRight(ui.RenderMarkdown(text), "\n"))
	},
}

func init() {
	insightCmd.Flags().StringVar(&insightModel, "model", "", "Anthropic model (default from config)")
	rootCmd.AddCommand(insightCmd)
}
