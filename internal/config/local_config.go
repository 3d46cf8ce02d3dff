package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LocalConfig is the config.yaml shape read directly with yaml parsing,
// bypassing the viper singleton. Used where the singleton may not be
// initialized and by SetKey to validate a rewrite before it lands.
type LocalConfig struct {
	Data     string `yaml:"data"`
	IDPrefix string `yaml:"id-prefix"`
	AIModel  string `yaml:"ai-model"`
	APIKey   string `yaml:"anthropic-api-key"`
	Color    string `yaml:"color"`
}

// LoadLocalConfig reads and parses config.yaml from the given braid
// directory (empty means DefaultDir). Returns an empty LocalConfig (not
// nil) if the file doesn't exist or can't be parsed.
func LoadLocalConfig(dir string) *LocalConfig {
	data, err := os.ReadFile(ConfigPath(dir))
	if err != nil {
		return &LocalConfig{}
	}

	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}
	return &cfg
}

// LoadLocalConfigWithEnv reads config.yaml and applies the BRAID_*
// environment overrides that matter before viper is up.
func LoadLocalConfigWithEnv(dir string) *LocalConfig {
	cfg := LoadLocalConfig(dir)

	if envData := os.Getenv("BRAID_DATA"); envData != "" {
		cfg.Data = envData
	}
	if envModel := os.Getenv("BRAID_AI_MODEL"); envModel != "" {
		cfg.AIModel = envModel
	}
	return cfg
}

// validateYaml rejects content that would not parse back into LocalConfig,
// so a bad SetKey never bricks the config file.
func validateYaml(content string) error {
	var cfg LocalConfig
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return fmt.Errorf("result is not valid yaml: %w", err)
	}
	return nil
}
