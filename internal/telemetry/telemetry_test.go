package telemetry

import (
	"context"
	"testing"

	"github.com/braidtask/braid/internal/task"
)

func TestEnabled(t *testing.T) {
	t.Setenv("BRAID_OTEL_ENABLED", "")
	if Enabled() {
		t.Fatal("telemetry should be disabled by default")
	}

	t.Setenv("BRAID_OTEL_ENABLED", "true")
	if !Enabled() {
		t.Fatal("BRAID_OTEL_ENABLED=true should enable telemetry")
	}

	t.Setenv("BRAID_OTEL_ENABLED", "1")
	if Enabled() {
		t.Fatal("only the literal \"true\" enables telemetry")
	}
}

func TestInitDisabledInstallsNoopProviders(t *testing.T) {
	t.Setenv("BRAID_OTEL_ENABLED", "")

	if err := Init(context.Background(), "braid-test", "dev"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(shutdownFns) != 0 {
		t.Fatalf("disabled Init registered %d shutdown fns, want 0", len(shutdownFns))
	}
	Shutdown(context.Background())
}

func TestWrapSaveHookDisabledPassesThrough(t *testing.T) {
	t.Setenv("BRAID_OTEL_ENABLED", "")

	calls := 0
	hook := func(tasks []*task.Task) error {
		calls++
		return nil
	}

	wrapped := WrapSaveHook(hook)
	if err := wrapped(nil); err != nil {
		t.Fatalf("wrapped hook: %v", err)
	}
	if calls != 1 {
		t.Fatalf("hook called %d times, want 1", calls)
	}
}

func TestWrapSaveHookNil(t *testing.T) {
	if WrapSaveHook(nil) != nil {
		t.Fatal("nil hook should stay nil")
	}
}
