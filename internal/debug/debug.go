// Package debug provides env-gated diagnostic output for braid.
package debug

import (
	"fmt"
	"os"
)

var (
	enabled     = os.Getenv("BRAID_DEBUG") != ""
	verboseMode = false
	quietMode   = false
)

// Enabled reports whether debug output is active, either via BRAID_DEBUG or
// the --verbose flag.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// Logf writes diagnostic output to stderr when debug is active.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled.
// Use this for informational output that --quiet should suppress.
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}
