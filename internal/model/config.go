package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig is the top-level application configuration. Both endpoints
// are externally supplied; the client never computes them.
type AppConfig struct {
	// APIBaseURL is the root URL of the task-management REST API,
	// including any path prefix (e.g. https://tasks.example.com/api/v1).
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`

	// SocketURL is the URL of the realtime push channel. Empty means
	// derive it from APIBaseURL by swapping the scheme to ws/wss.
	SocketURL string `mapstructure:"socket_url" yaml:"socket_url"`

	// NotificationPollSec is how often (in seconds) the notifications
	// query refetches in the background.
	NotificationPollSec int `mapstructure:"notification_poll_sec" yaml:"notification_poll_sec"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskdeck/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskdeck", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		APIBaseURL:          "http://localhost:3000/api/v1",
		NotificationPollSec: 30,
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. Environment variables (TASKDECK_API_BASE_URL, TASKDECK_SOCKET_URL)
// override file values. If the file does not exist, defaults are returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api_base_url", "http://localhost:3000/api/v1")
	v.SetDefault("socket_url", "")
	v.SetDefault("notification_poll_sec", 30)

	v.SetEnvPrefix("taskdeck")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.NotificationPollSec <= 0 {
		cfg.NotificationPollSec = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api_base_url", cfg.APIBaseURL)
	v.Set("socket_url", cfg.SocketURL)
	v.Set("notification_poll_sec", cfg.NotificationPollSec)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
