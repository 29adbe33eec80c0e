package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

// NewManager creates a viper-backed configuration manager.
func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads the config file at configPath on top of the defaults, with
// FORECAST_* environment variables taking precedence over file values.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	if err := m.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config, err := m.unmarshal()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

// Reload re-reads the previously loaded config file.
func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	config, err := m.unmarshal()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

// GetConfig returns the currently loaded configuration.
func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) {
	m.viper.SetConfigFile(configPath)

	m.viper.SetEnvPrefix("FORECAST")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()
}

// unmarshal decodes over a default-filled Config so a partial file only
// overrides the keys it names; absent policy tables keep their defaults.
func (m *manager) unmarshal() (*Config, error) {
	config := Default()
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Worker.MaxWorkers < 0 {
		return fmt.Errorf("max_workers cannot be negative")
	}
	if config.Worker.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive")
	}
	if config.Projection.DefaultMonths < 1 {
		return fmt.Errorf("default_months must be at least 1")
	}
	if config.Projection.MaxMonths < config.Projection.DefaultMonths {
		return fmt.Errorf("max_months must be at least default_months")
	}
	if config.Export.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if err := config.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	return nil
}
