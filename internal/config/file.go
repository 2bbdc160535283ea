package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath returns ~/.config/drumvis/config.yaml, or "" when the home
// directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "drumvis", "config.yaml")
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value; present keys must be in range.
func Load(path string) (RenderConfig, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// TryLoadDefault loads DefaultPath when it exists and is valid, and the
// built-in defaults otherwise.
func TryLoadDefault() RenderConfig {
	path := DefaultPath()
	if path == "" {
		return Default()
	}
	if _, err := os.Stat(path); err != nil {
		return Default()
	}
	c, err := Load(path)
	if err != nil {
		return Default()
	}
	return c
}

// Save writes c as YAML, creating parent directories.
func Save(path string, c RenderConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
