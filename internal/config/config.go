// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputDir = "../public"
	DefaultFontPath  = "/System/Library/Fonts/Helvetica.ttc"
)

type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Font       FontConfig       `yaml:"font"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Prometheus PrometheusConfig `yaml:"prometheus"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type OutputConfig struct {
	// Dir is resolved against BaseDir when relative.
	Dir string `yaml:"dir"`
	// BaseDir is the working directory for the run. Empty means the
	// directory holding the executable.
	BaseDir  string `yaml:"base_dir"`
	Manifest bool   `yaml:"manifest"`
	// OGImage also writes the 1200x630 social preview card.
	OGImage bool `yaml:"og_image"`
}

type FontConfig struct {
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	// Path to the bbolt file. Empty disables run history.
	Path             string        `yaml:"path"`
	HistoryRetention time.Duration `yaml:"history_retention"`
}

type PrometheusConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MetricsPath string `yaml:"metrics_path"`
	PushGateway string `yaml:"push_gateway"`
	JobName     string `yaml:"job_name"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

// Load reads filename, fills in defaults and validates the result. An
// empty filename yields Default().
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}

	config, err := loadConfigFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	setDefaults(config)

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadConfigFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &config, nil
}

func setDefaults(config *Config) {
	if config.Output.Dir == "" {
		config.Output.Dir = DefaultOutputDir
	}
	if config.Font.Path == "" {
		config.Font.Path = DefaultFontPath
	}

	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30 * time.Second
	}

	if config.Database.HistoryRetention == 0 {
		config.Database.HistoryRetention = 30 * 24 * time.Hour
	}

	if config.Prometheus.MetricsPath == "" {
		config.Prometheus.MetricsPath = "/metrics"
	}
	if config.Prometheus.JobName == "" {
		config.Prometheus.JobName = "favicongen"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}

func validate(config *Config) error {
	if config.Database.HistoryRetention < 0 {
		return fmt.Errorf("database.history_retention must not be negative")
	}

	if !strings.HasPrefix(config.Prometheus.MetricsPath, "/") {
		return fmt.Errorf("prometheus.metrics_path must start with '/': %q", config.Prometheus.MetricsPath)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", config.Logging.Format)
	}

	if config.Server.ReadTimeout < 0 || config.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}

	return nil
}

// ResolvePath joins a relative path onto Output.BaseDir, or onto the
// directory holding the executable when BaseDir is empty.
func (c *Config) ResolvePath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}

	base := c.Output.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate executable: %w", err)
		}
		base = filepath.Dir(exe)
	}

	return filepath.Join(base, path), nil
}
