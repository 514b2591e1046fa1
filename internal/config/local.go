package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig holds configuration for local daemon mode
type LocalConfig struct {
	Daemon  DaemonConfig  `yaml:"daemon"`
	Storage StorageConfig `yaml:"storage"`
	Content ContentConfig `yaml:"content"`
	Events  EventsConfig  `yaml:"events"`
}

// DaemonConfig holds daemon server settings
type DaemonConfig struct {
	Port     int    `yaml:"port"`
	Bind     string `yaml:"bind"`
	LogLevel string `yaml:"log_level"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Backend     string `yaml:"backend"` // local, sqlite, postgres
	DatabaseURL string `yaml:"-"`       // Loaded from secrets.yaml
}

// ContentConfig holds content pack settings
type ContentConfig struct {
	// Path overrides the default ~/.kaina/content directory
	Path string `yaml:"path,omitempty"`
}

// EventsConfig holds answer-event publishing settings
type EventsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	RabbitMQURL string `yaml:"-"` // Loaded from secrets.yaml
}

// SecretsConfig holds connection URLs with embedded credentials,
// kept out of config.yaml
type SecretsConfig struct {
	DatabaseURL string `yaml:"database_url,omitempty"`
	RabbitMQURL string `yaml:"rabbitmq_url,omitempty"`
}

// KainaDir returns the path to ~/.kaina
func KainaDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".kaina"), nil
}

// EnsureKainaDir creates ~/.kaina and subdirectories if they don't exist
func EnsureKainaDir() (string, error) {
	dir, err := KainaDir()
	if err != nil {
		return "", err
	}

	subdirs := []string{
		"",
		"logs",
		"learners",
		"sessions",
		"content",
		"cache",
	}

	for _, subdir := range subdirs {
		path := filepath.Join(dir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", fmt.Errorf("create dir %s: %w", path, err)
		}
	}

	return dir, nil
}

// DefaultLocalConfig returns sensible defaults for local mode
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		Daemon: DaemonConfig{
			Port:     7421,
			Bind:     "127.0.0.1",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Backend: BackendLocal,
		},
		Events: EventsConfig{
			Enabled: false,
		},
	}
}

// LoadLocalConfig loads configuration from ~/.kaina/config.yaml
func LoadLocalConfig() (*LocalConfig, error) {
	dir, err := KainaDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, "config.yaml")

	// If config doesn't exist, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultLocalConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultLocalConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Load connection secrets
	if err := loadSecrets(dir, cfg); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}

	return cfg, nil
}

// loadSecrets loads connection URLs from secrets.yaml
func loadSecrets(dir string, cfg *LocalConfig) error {
	secretsPath := filepath.Join(dir, "secrets.yaml")

	// If secrets file doesn't exist, skip
	if _, err := os.Stat(secretsPath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(secretsPath)
	if err != nil {
		return fmt.Errorf("read secrets: %w", err)
	}

	var secrets SecretsConfig
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("parse secrets: %w", err)
	}

	cfg.Storage.DatabaseURL = secrets.DatabaseURL
	cfg.Events.RabbitMQURL = secrets.RabbitMQURL
	return nil
}

// SaveLocalConfig saves configuration to ~/.kaina/config.yaml
func SaveLocalConfig(cfg *LocalConfig) error {
	dir, err := EnsureKainaDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, "config.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// SaveSecrets saves connection URLs to ~/.kaina/secrets.yaml
func SaveSecrets(secrets SecretsConfig) error {
	dir, err := EnsureKainaDir()
	if err != nil {
		return err
	}

	secretsPath := filepath.Join(dir, "secrets.yaml")

	data, err := yaml.Marshal(secrets)
	if err != nil {
		return fmt.Errorf("marshal secrets: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(secretsPath, data, 0600); err != nil {
		return fmt.Errorf("write secrets: %w", err)
	}

	return nil
}
