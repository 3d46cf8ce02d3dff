package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/braidtask/braid/internal/config"
	"github.com/braidtask/braid/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Get and set braid configuration",
	GroupID: "data",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		if !config.IsKnownKey(key) {
			FatalError("unknown config key %q (valid: %s)", key, strings.Join(config.KnownKeys(), ", "))
		}
		fmt.Println(config.GetString(key))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a configuration value to config.yaml",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.SetKey("", args[0], args[1]); err != nil {
			FatalError("%v", err)
		}
		value := args[1]
		if args[0] == config.KeyAPIKey {
			value = "(set)"
		}
		successf("%s = %s", args[0], value)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configuration values",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			out := make(map[string]string, len(config.KnownKeys()))
			for _, key := range config.KnownKeys() {
				out[key] = displayValue(key)
			}
			outputJSON(out)
			return
		}
		for _, key := range config.KnownKeys() {
			fmt.Printf("%-18s %-34s %s\n", key, displayValue(key), ui.RenderMuted(config.Describe(key)))
		}
	},
}

// displayValue masks the API key; everything else prints as stored.
func displayValue(key string) string {
	value := config.GetString(key)
	if key == config.KeyAPIKey && value != "" {
		return "(set)"
	}
	return value
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
