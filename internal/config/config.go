// Package config provides configuration management for strata's CLI.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/strata/internal/erasure"
	"github.com/mrz1836/strata/internal/sss"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version" json:"version"`
	Home     string         `yaml:"home" json:"home"`
	RS       RSDefaults     `yaml:"rs" json:"rs"`
	SSS      SSSDefaults    `yaml:"sss" json:"sss"`
	Security SecurityConfig `yaml:"security" json:"security"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// RSDefaults holds the Reed-Solomon profile new `encode` invocations
// start from when no flags override it.
type RSDefaults struct {
	DataShards   int `yaml:"data_shards"`
	ParityShards int `yaml:"parity_shards"`
	ShardSize    int `yaml:"shard_size"`
}

// ToEncodingConfig converts d into a validated erasure.EncodingConfig.
func (d RSDefaults) ToEncodingConfig() (erasure.EncodingConfig, error) {
	return erasure.NewEncodingConfig(d.DataShards, d.ParityShards, d.ShardSize)
}

// SSSDefaults holds the Shamir split profile new `split` invocations
// start from when no flags override it.
type SSSDefaults struct {
	Threshold       int  `yaml:"threshold"`
	TotalShares     int  `yaml:"total_shares"`
	SecretMaxSize   int  `yaml:"secret_max_size"`
	UseSecureRandom bool `yaml:"use_secure_random"`
}

// ToSSSConfig converts d into a validated sss.Config.
func (d SSSDefaults) ToSSSConfig() (sss.Config, error) {
	return sss.NewConfig(d.Threshold, d.TotalShares, d.SecretMaxSize, d.UseSecureRandom)
}

// SecurityConfig defines security settings.
type SecurityConfig struct {
	MemoryLock bool `yaml:"memory_lock"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Defaults returns the baseline configuration used when no config file
// exists yet.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    DefaultHome(),
		RS: RSDefaults{
			DataShards:   4,
			ParityShards: 2,
			ShardSize:    erasure.DefaultShardSize,
		},
		SSS: SSSDefaults{
			Threshold:       3,
			TotalShares:     5,
			SecretMaxSize:   0,
			UseSecureRandom: true,
		},
		Security: SecurityConfig{MemoryLock: true},
		Output:   OutputConfig{DefaultFormat: "auto", Color: "auto"},
		Logging:  LoggingConfig{Level: "error"},
	}
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path under home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the strata home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// GetSecurity returns the security configuration.
func (c *Config) GetSecurity() SecurityConfig {
	return c.Security
}

// DefaultHome returns the default strata home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strata"
	}
	return filepath.Join(home, ".strata")
}
