package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// outputJSON writes v to stdout as indented JSON. Any command honoring
// the --json flag funnels through here.
func outputJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

// successf prints a green check mark line to stdout.
func successf(format string, args ...interface{}) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}
