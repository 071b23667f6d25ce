// Package config handles reading and writing ~/.caremate/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for ~/.caremate/config.yaml.
type Config struct {
	Version int          `yaml:"version"`
	API     APIConfig    `yaml:"api"`
	Client  ClientConfig `yaml:"client"`
}

// APIConfig holds settings for the CareMate backend connection.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ClientConfig controls local client behaviour.
type ClientConfig struct {
	// HistoryLimit caps how many call-history entries the calls view requests.
	HistoryLimit int `yaml:"history_limit"`
	// TopCaregivers is the size of the "top rated" slice on the marketplace view.
	TopCaregivers int `yaml:"top_caregivers"`
}

const configDir = ".caremate"
const configFile = "config.yaml"

// Dir returns the caremate data directory inside home, creating it if needed.
func Dir(home string) (string, error) {
	dir := filepath.Join(home, configDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// ReadConfig reads ~/.caremate/config.yaml from the given home directory.
// home is the user home (not .caremate/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(home string) (*Config, error) {
	path := filepath.Join(home, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// WriteConfig writes cfg to ~/.caremate/config.yaml in the given home directory.
// Creates the .caremate/ directory if it does not exist.
func WriteConfig(home string, cfg *Config) error {
	dirPath := filepath.Join(home, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
		},
		Client: ClientConfig{
			HistoryLimit:  50,
			TopCaregivers: 5,
		},
	}
}

// Load reads the config from the current user's home directory, falling back
// to defaults when no config file exists yet.
func Load() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig()
	}
	cfg, err := ReadConfig(home)
	if err != nil {
		return DefaultConfig()
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultConfig().API.BaseURL
	}
	if cfg.Client.TopCaregivers <= 0 {
		cfg.Client.TopCaregivers = DefaultConfig().Client.TopCaregivers
	}
	return cfg
}
