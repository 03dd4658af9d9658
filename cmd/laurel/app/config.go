package app

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/laurel-etl/laurel/internal/config"
	"github.com/laurel-etl/laurel/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// viper holds the pass settings (sources, sink, notes policy) with
	// flags, env, .env files and the config file layered on top of the
	// defaults.
	viper *viper.Viper
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (bound by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.laurel.yaml or ./.laurel.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first so AutomaticEnv sees them
	loadEnvFiles()

	v := config.NewViper()
	return &Config{
		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
		viper:     v,
	}, nil
}

// Viper returns the settings store flags are bound to.
func (c *Config) Viper() *viper.Viper {
	return c.viper
}

// Settings reads the config file, if any, and returns the validated pass
// settings.
func (c *Config) Settings() (*config.Settings, error) {
	if c.ConfigFile != "" {
		c.viper.SetConfigFile(c.ConfigFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			c.viper.AddConfigPath(home)
		}
		c.viper.AddConfigPath(".")
		c.viper.SetConfigType("yaml")
		c.viper.SetConfigName(".laurel")
	}

	if err := c.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return config.Load(c.viper)
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Existing variables are never overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
