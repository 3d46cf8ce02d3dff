// Package config owns braid's settings. A package-level viper instance
// backs the typed accessors; LocalConfig offers a direct yaml read for the
// places that must not depend on the singleton being initialized.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides: BRAID_DATA, BRAID_AI_MODEL, ...
const EnvPrefix = "BRAID"

// Configuration keys. Flat dashed names so config.yaml stays greppable.
const (
	KeyData     = "data"
	KeyIDPrefix = "id-prefix"
	KeyAIModel  = "ai-model"
	KeyAPIKey   = "anthropic-api-key"
	KeyColor    = "color"
)

const (
	defaultIDPrefix = "t"
	defaultAIModel  = "claude-3-5-haiku-latest"
	snapshotName    = "tasks.jsonl"
	configName      = "config.yaml"
	templatesName   = "templates.toml"
)

// knownKeys maps every settable key to a one-line description used by
// `braid config list` and by SetKey's unknown-key error.
var knownKeys = map[string]string{
	KeyData:     "snapshot file location",
	KeyIDPrefix: "prefix for generated task ids",
	KeyAIModel:  "Anthropic model for breakdown and insight",
	KeyAPIKey:   "Anthropic API key (ANTHROPIC_API_KEY env wins)",
	KeyColor:    "color mode: auto, always or never",
}

var v *viper.Viper

// DefaultDir returns the braid data directory: $BRAID_DIR when set,
// otherwise ~/.braid.
func DefaultDir() string {
	if dir := os.Getenv("BRAID_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".braid"
	}
	return filepath.Join(home, ".braid")
}

// ConfigPath returns the config file location under dir (empty means
// DefaultDir).
func ConfigPath(dir string) string {
	if dir == "" {
		dir = DefaultDir()
	}
	return filepath.Join(dir, configName)
}

// TemplatesPath returns the task templates file location under dir (empty
// means DefaultDir).
func TemplatesPath(dir string) string {
	if dir == "" {
		dir = DefaultDir()
	}
	return filepath.Join(dir, templatesName)
}

// Init loads config.yaml from dir (empty means DefaultDir) and wires
// BRAID_* environment overrides. A missing config file is not an error.
func Init(dir string) error {
	if dir == "" {
		dir = DefaultDir()
	}

	nv := viper.New()
	nv.SetConfigFile(ConfigPath(dir))
	nv.SetConfigType("yaml")
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	nv.AutomaticEnv()

	nv.SetDefault(KeyData, filepath.Join(dir, snapshotName))
	nv.SetDefault(KeyIDPrefix, defaultIDPrefix)
	nv.SetDefault(KeyAIModel, defaultAIModel)
	nv.SetDefault(KeyAPIKey, "")
	nv.SetDefault(KeyColor, "auto")

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read %s: %w", ConfigPath(dir), err)
		}
	}

	v = nv
	return nil
}

// ensure lazily initializes the singleton with defaults so accessors work
// in library use. The CLI calls Init explicitly and reports read errors;
// this path quietly falls back to defaults.
func ensure() *viper.Viper {
	if v == nil {
		_ = Init("")
	}
	return v
}

// DataPath returns the snapshot file location.
func DataPath() string {
	return ensure().GetString(KeyData)
}

// IDPrefix returns the prefix for generated task ids.
func IDPrefix() string {
	return ensure().GetString(KeyIDPrefix)
}

// DefaultAIModel returns the model used for breakdown and insight calls.
func DefaultAIModel() string {
	return ensure().GetString(KeyAIModel)
}

// APIKey returns the configured Anthropic key. The generators still prefer
// the ANTHROPIC_API_KEY environment variable over this value.
func APIKey() string {
	return ensure().GetString(KeyAPIKey)
}

// ColorMode returns the configured color mode (auto, always or never).
func ColorMode() string {
	return ensure().GetString(KeyColor)
}

// GetString returns the effective value for key (file, env or default).
func GetString(key string) string {
	return ensure().GetString(key)
}

// IsKnownKey reports whether key is a braid setting.
func IsKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// KnownKeys returns the settable keys in sorted order.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe returns the one-line description for a known key.
func Describe(key string) string {
	return knownKeys[key]
}

/// SetKey writes key: value into dir's config.yaml (empty dir means
// DefaultDir), updating a live or commented-out line in place and appending
// otherwise, then reloads the singleton so the running process sees it.
func SetKey(dir, key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(KnownKeys(), ", "))
	}
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := ConfigPath(dir)
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config.yaml: %w", err)
	}

	newContent := updateYamlKey(string(content), key, value)
	if err := validateYaml(newContent); err != nil {
		return fmt.Errorf("refusing to write config.yaml: %w", err)
	}

	if err := os.WriteFile(path, []byte(newContent), 0600); err != nil {
		return fmt.Errorf("failed to write config.yaml: %w", err)
	}
	return Init(dir)
}
