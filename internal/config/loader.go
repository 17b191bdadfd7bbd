package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads and validates the game configuration.
// Search order: customPath -> ~/.arcade/configs/turns.yaml -> ./configs/turns.yaml -> embedded default
func Load(customPath string) (TurnsConfig, error) {
	cfg, err := locate(customPath)
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func locate(customPath string) (TurnsConfig, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := Parse(customPath)
		if err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("turns.yaml"); userCfgPath != "" {
		if cfg, err := Parse(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, err := Parse(filepath.Join("configs", "turns.yaml")); err == nil {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg := DefaultTurnsConfig()
	if err := yaml.Unmarshal(defaultTurnsYAML, &cfg); err != nil {
		return DefaultTurnsConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse reads a config file. Fields missing from the file keep their
// default values.
func Parse(path string) (TurnsConfig, error) {
	cfg := DefaultTurnsConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
