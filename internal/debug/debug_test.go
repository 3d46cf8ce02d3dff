package debug

import (
	"testing"
)

func TestEnabled(t *testing.T) {
	oldEnabled, oldVerbose := enabled, verboseMode
	defer func() { enabled, verboseMode = oldEnabled, oldVerbose }()

	enabled = false
	verboseMode = false
	if Enabled() {
		t.Error("Enabled() = true with everything off")
	}

	verboseMode = true
	if !Enabled() {
		t.Error("Enabled() = false with verbose on")
	}

	verboseMode = false
	enabled = true
	if !Enabled() {
		t.Error("Enabled() = false with env gate on")
	}
}

func TestQuietMode(t *testing.T) {
	old := quietMode
	defer func() { quietMode = old }()

	SetQuiet(true)
	if !IsQuiet() {
		t.Error("IsQuiet() = false after SetQuiet(true)")
	}
	SetQuiet(false)
	if IsQuiet() {
		t.Error("IsQuiet() = true after SetQuiet(false)")
	}
}
