package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetSingleton clears the package viper between tests.
func resetSingleton(t *testing.T) {
	t.Helper()
	old := v
	v = nil
	t.Cleanup(func() { v = old })
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config.yaml: %v", err)
	}
}

func TestInitDefaults(t *testing.T) {
	resetSingleton(t)
	dir := t.TempDir()

	if err := Init(dir); err != nil {
		t.Fatalf("Init() with no config file: error = %v", err)
	}

	if got, want := DataPath(), filepath.Join(dir, "tasks.jsonl"); got != want {
		t.Errorf("DataPath() = %q, want %q", got, want)
	}
	if got := IDPrefix(); got != "t" {
		t.Errorf("IDPrefix() = %q, want t", got)
	}
	if got := DefaultAIModel(); got != "claude-3-5-haiku-latest" {
		t.Errorf("DefaultAIModel() = %q, want claude-3-5-haiku-latest", got)
	}
	if got := ColorMode(); got != "auto" {
		t.Errorf("ColorMode() = %q, want auto", got)
	}
}

func TestInitReadsFile(t *testing.T) {
	resetSingleton(t)
	dir := t.TempDir()
	writeConfig(t, dir, "id-prefix: todo\nai-model: claude-sonnet-4-5\n")

	if err := Init(dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := IDPrefix(); got != "todo" {
		t.Errorf("IDPrefix() = %q, want todo", got)
	}
	if got := DefaultAIModel(); got != "claude-sonnet-4-5" {
		t.Errorf("DefaultAIModel() = %q, want claude-sonnet-4-5", got)
	}
}

func TestInitRejectsMalformedFile(t *testing.T) {
	resetSingleton(t)
	dir := t.TempDir()
	writeConfig(t, dir, "id-prefix: [unclosed\n")

	if err := Init(dir); err == nil {
		t.Fatal("Init() with malformed yaml: want error, got nil")
	}
}

func TestEnvOverride(t *testing.T) {
	resetSingleton(t)
	dir := t.TempDir()
	writeConfig(t, dir, "ai-model: from-file\n")
	t.Setenv("BRAID_AI_MODEL", "from-env")

	if err := Init(dir); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := DefaultAIModel(); got != "from-env" {
		t.Errorf("DefaultAIModel() = %q, want env override from-env", got)
	}
}

func TestSetKeyRoundTrip(t *testing.T) {
	resetSingleton(t)
	dir := t.TempDir()

	if err := SetKey(dir, KeyIDPrefix, "todo"); err != nil {
		t.Fatalf("SetKey() error = %v", err)
	}
	if got := IDPrefix(); got != "todo" {
		t.Errorf("IDPrefix() after SetKey = %q, want todo", got)
	}

	cfg := LoadLocalConfig(dir)
	if cfg.IDPrefix != "todo" {
		t.Errorf("LoadLocalConfig().IDPrefix = %q, want todo", cfg.IDPrefix)
	}
}

func TestSetKeyUpdatesCommentedLine(t *testing.T) {
	resetSingleton(t)
	dir := t.TempDir()
	writeConfig(t, dir, "# braid settings\n# color: always\n")

	if err := SetKey(dir, KeyColor, "never"); err != nil {
		t.Fatalf("SetKey() error = %v", err)
	}

	data, err := os.ReadFile(ConfigPath(dir))
	if err != nil {
		t.Fatalf("failed to read config.yaml: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "color: never") {
		t.Errorf("commented key not replaced:\n%s", content)
	}
	if !strings.Contains(content, "# braid settings") {
		t.Errorf("unrelated comment dropped:\n%s", content)
	}
	if got := ColorMode(); got != "never" {
		t.Errorf("ColorMode() = %q, want never", got)
	}
}

func TestSetKeyRejectsUnknownKey(t *testing.T) {
	resetSingleton(t)
	dir := t.TempDir()

	err := SetKey(dir, "ai-modle", "x")
	if err == nil {
		t.Fatal("SetKey() with unknown key: want error, got nil")
	}
	if !strings.Contains(err.Error(), "ai-model") {
		t.Errorf("error should list valid keys, got %q", err)
	}
	if _, statErr := os.Stat(ConfigPath(dir)); !os.IsNotExist(statErr) {
		t.Error("unknown key still created a config file")
	}
}

func TestKnownKeysSorted(t *testing.T) {
	keys := KnownKeys()
	if len(keys) != len(knownKeys) {
		t.Fatalf("KnownKeys() returned %d keys, want %d", len(keys), len(knownKeys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("KnownKeys() not sorted: %v", keys)
			break
		}
	}
	for _, k := range keys {
		if Describe(k) == "" {
			t.Errorf("key %s has no description", k)
		}
	}
}

func TestDefaultDirEnvOverride(t *testing.T) {
	t.Setenv("BRAID_DIR", "/tmp/elsewhere")
	if got := DefaultDir(); got != "/tmp/elsewhere" {
		t.Errorf("DefaultDir() = %q, want /tmp/elsewhere", got)
	}
}
