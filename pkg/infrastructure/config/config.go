package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// BOMPLAN_DATABASE_DSN.
const EnvPrefix = "BOMPLAN"

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	// Dir receives result files; empty prints to stdout
	Dir string `mapstructure:"dir"`
}

type CacheConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// Config holds all runtime configuration. Values are populated from
// .bomplan.yaml, BOMPLAN_* env vars and CLI flags.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Output   OutputConfig   `mapstructure:"output"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Verbose  bool           `mapstructure:"verbose"`
}

// Init points viper at cfgFile, or at .bomplan.yaml in the working or home
// directory, and enables environment overrides. A missing default config
// file is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".bomplan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	bindEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func bindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	bindEnv()

	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "bomplan.db")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("output.format", "text")
	viper.SetDefault("output.dir", "")
	viper.SetDefault("cache.max_entries", 256)
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would only fail later at use
func (c Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "mysql", "memory":
	default:
		return fmt.Errorf("invalid database.driver %q (expected sqlite, mysql or memory)", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.Output.Format {
	case "text", "json", "csv", "xlsx":
	default:
		return fmt.Errorf("invalid output.format %q (expected text, json, csv or xlsx)", c.Output.Format)
	}
	return nil
}
