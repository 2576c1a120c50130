package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Settings Settings      `yaml:"settings"`
	Storage  StorageConfig `yaml:"storage"`
	Hangar   HangarConfig  `yaml:"hangar"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
	Timezone string `yaml:"timezone"`
}

// StorageConfig represents flight-log and cache locations
type StorageConfig struct {
	DataDirectory  string `yaml:"dataDirectory"`
	CacheDirectory string `yaml:"cacheDirectory"`
	InspectionDB   string `yaml:"inspectionDb"`
}

// HangarConfig represents the hangar status endpoint settings
type HangarConfig struct {
	BaseURL      string        `yaml:"baseUrl"`
	PollInterval time.Duration `yaml:"pollInterval"`
	Enabled      bool          `yaml:"enabled"`
}

// UnmarshalYAML accepts the poll interval as a duration string ("30s").
func (h *HangarConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL      string `yaml:"baseUrl"`
		PollInterval string `yaml:"pollInterval"`
		Enabled      bool   `yaml:"enabled"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	h.BaseURL = raw.BaseURL
	h.Enabled = raw.Enabled
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid hangar.pollInterval %q: %w", raw.PollInterval, err)
		}
		h.PollInterval = d
	}
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Settings: Settings{
			LogLevel: "info",
			Timezone: "Local",
		},
		Storage: StorageConfig{
			DataDirectory:  filepath.Join(home, ".flightreview", "flights"),
			CacheDirectory: filepath.Join(home, ".flightreview", "cache"),
			InspectionDB:   filepath.Join(home, ".flightreview", "inspections.db"),
		},
		Hangar: HangarConfig{
			PollInterval: 10 * time.Second,
		},
	}
}

// Load reads the config file at path, layered over Default. A missing
// file is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the commands
// cannot work with.
func (c *Config) Validate() error {
	if c.Storage.DataDirectory == "" {
		return fmt.Errorf("storage.dataDirectory must not be empty")
	}
	if c.Hangar.Enabled && c.Hangar.BaseURL == "" {
		return fmt.Errorf("hangar.baseUrl required when hangar polling is enabled")
	}
	if c.Hangar.PollInterval <= 0 {
		c.Hangar.PollInterval = 10 * time.Second
	}
	return nil
}
