package config

import (
	"forecast-go/pkg/model"
)

// Config is the full application configuration. The model policy section
// lets deployments swap the heuristic constant tables (CTR curve, rank
// brackets, step sizes) without code changes.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Projection ProjectionConfig `mapstructure:"projection"`
	Export     ExportConfig     `mapstructure:"export"`
	Policy     model.Policy     `mapstructure:"policy"`
}

type ServerConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	BodyLimitMB   int    `mapstructure:"body_limit_mb"`
	ReadTimeoutS  int    `mapstructure:"read_timeout_s"`
	WriteTimeoutS int    `mapstructure:"write_timeout_s"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type WorkerConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
	QueueSize  int `mapstructure:"queue_size"`
}

type ProjectionConfig struct {
	DefaultMonths     int    `mapstructure:"default_months"`
	MaxMonths         int    `mapstructure:"max_months"`
	DefaultMode       string `mapstructure:"default_mode"`
	ParallelThreshold int    `mapstructure:"parallel_threshold"`
}

type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			BodyLimitMB:   16,
			ReadTimeoutS:  30,
			WriteTimeoutS: 30,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Worker: WorkerConfig{
			MaxWorkers: 0, // 0 means NumCPU
			QueueSize:  1024,
		},
		Projection: ProjectionConfig{
			DefaultMonths:     6,
			MaxMonths:         12,
			DefaultMode:       "average",
			ParallelThreshold: 500,
		},
		Export: ExportConfig{
			OutputDir: "./output",
		},
		Policy: model.DefaultPolicy(),
	}
}

// Manager loads and refreshes configuration.
type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
