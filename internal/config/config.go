package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/taskrules/internal/domain"
)

// Stores the CLI can open. The in-memory store does not outlive a process,
// so it is only offered to code embedding the library.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds the configuration for the taskrules CLI.
type Config struct {
	SettingsPath string
	StoreKind    string
	StorePath    string
}

// Load reads configuration from environment variables with sensible defaults.
// It does not validate, so command-line overrides can be applied first.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	cfg := &Config{
		SettingsPath: getEnv("TASKRULES_SETTINGS", filepath.Join(cwd, "settings.json")),
		StoreKind:    getEnv("TASKRULES_STORE", StoreFile),
		StorePath:    getEnv("TASKRULES_STORE_PATH", cwd),
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreKind {
	case StoreFile, StoreSQLite:
		return nil
	case "memory":
		return fmt.Errorf("the memory store does not persist between runs (want %s or %s)", StoreFile, StoreSQLite)
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.StoreKind, StoreFile, StoreSQLite)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadSettings reads the rules settings from a JSON or YAML file, picked by
// extension. A missing file yields empty settings.
func LoadSettings(path string) (*domain.Settings, error) {
	settings := &domain.Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
	default:
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
	}
	return settings, nil
}
