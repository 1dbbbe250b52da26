package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Factor  FactorConfig  `yaml:"factor" envconfig:"FACTOR"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against the working directory by ResolvePaths.
type PathsConfig struct {
	DataDir         string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	IntermediateDir string `yaml:"intermediate_dir" envconfig:"INTERMEDIATE_DIR"`
	PredictorsDir   string `yaml:"predictors_dir" envconfig:"PREDICTORS_DIR"`
	LogsDir         string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// FactorConfig contains the factor computation parameters
type FactorConfig struct {
	ClipLower float64 `yaml:"clip_lower" envconfig:"CLIP_LOWER"`
	ClipUpper float64 `yaml:"clip_upper" envconfig:"CLIP_UPPER" validate:"gtfield=ClipLower"`
}

// TracingConfig controls the optional stdout span exporter
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
}

var validate = validator.New()

// Load loads configuration from defaults, the default YAML overlay, and
// environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit YAML overlay path. An empty configFile
// falls back to searching the default location; a named file that does not
// exist is an error, while an absent default overlay is not.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	explicit := configFile != ""
	if !explicit {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("load config file %s: %w", configFile, err)
			}
		}
	}

	// Environment variables take precedence over the file overlay.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	return nil
}

// findConfigFile returns the path of the default overlay if one exists
func findConfigFile() string {
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Default returns the built-in configuration. Every binary runs with these
// values when no overlay or environment variables are present.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/" + DefaultLogFileName,
		},
		Factor: FactorConfig{
			ClipLower: -3,
			ClipUpper: 3,
		},
		Tracing: TracingConfig{
			Enabled: false,
		},
	}
}
