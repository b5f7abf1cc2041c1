// Package config provides configuration management for attest using Viper.
package config

import (
	"io/fs"

	"github.com/spf13/viper"

	"github.com/thoreinstein/attest/internal/datasize"
	"github.com/thoreinstein/attest/internal/errors"
	"github.com/thoreinstein/attest/internal/paths"
	"github.com/thoreinstein/attest/internal/registry"
	"github.com/thoreinstein/attest/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = "attest"

// CurrentVersion is the newest configuration version this build understands.
const CurrentVersion = 1

// Config represents the top-level configuration structure.
type Config struct {
	Version     int    `mapstructure:"version" yaml:"version"`
	Rules       string `mapstructure:"rules" yaml:"rules"`
	Format      string `mapstructure:"format" yaml:"format"`
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"`
	MaxFileSize string `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// MaxFileBytes returns MaxFileSize in bytes.
func (c *Config) MaxFileBytes() (int64, error) {
	size, err := datasize.Parse(c.MaxFileSize)
	if err != nil {
		return 0, err
	}
	return int64(size.Bytes()), nil
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("ATTEST")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", CurrentVersion)
	viper.SetDefault("rules", paths.RulesFile())
	viper.SetDefault("format", "text")
	viper.SetDefault("concurrency", registry.DefaultConcurrency)
	viper.SetDefault("max_file_size", datasize.Bytes(uint64(fileutil.DefaultMaxFileSize)).String())
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load, defaults apply
		case errors.As(err, &notFound), errors.Is(err, fs.ErrNotExist):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// File returns the config file viper read, or "" when defaults are in use.
func File() string {
	return viper.ConfigFileUsed()
}
