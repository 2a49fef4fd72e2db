// Package config loads server settings from an optional YAML file, a .env
// file and SNAKE_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cbodonnell/snake/pkg/game/constants"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SNAKE_"

// Config holds the server's configuration values.
type Config struct {
	HTTPPort     int           `yaml:"httpPort"`
	GridSize     int           `yaml:"gridSize"`
	TickInterval time.Duration `yaml:"tickInterval"`
	DatabaseURL  string        `yaml:"databaseURL"`
	// MigrationsDir defaults to migrations/<scheme> of the database url
	MigrationsDir string `yaml:"migrationsDir"`
	LogLevel      string `yaml:"logLevel"`
	TLSCertFile   string `yaml:"tlsCertFile"`
	TLSKeyFile    string `yaml:"tlsKeyFile"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPPort:     8080,
		GridSize:     constants.DefaultGridSize,
		TickInterval: constants.TickInterval,
		DatabaseURL:  "sqlite://snake.db",
		LogLevel:     "info",
	}
}

// Load reads the YAML file at path if path is not empty, then the first of
// envFiles that exists (".env" when none are given), then the environment.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %v", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return cfg, fmt.Errorf("failed to load %s: %v", envFile, err)
		}
		log.Debug("Loaded environment from %s", envFile)
		break
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := envInt("HTTP_PORT", &cfg.HTTPPort); err != nil {
		return err
	}
	if err := envInt("GRID_SIZE", &cfg.GridSize); err != nil {
		return err
	}
	if value, ok := lookupEnv("TICK_INTERVAL"); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("environment variable %sTICK_INTERVAL must be a duration: %v", envPrefix, err)
		}
		cfg.TickInterval = d
	}
	envString("DATABASE_URL", &cfg.DatabaseURL)
	envString("MIGRATIONS_DIR", &cfg.MigrationsDir)
	envString("LOG_LEVEL", &cfg.LogLevel)
	envString("TLS_CERT_FILE", &cfg.TLSCertFile)
	envString("TLS_KEY_FILE", &cfg.TLSKeyFile)
	return nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(envPrefix + key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func envString(key string, dst *string) {
	if value, ok := lookupEnv(key); ok {
		*dst = value
	}
}

func envInt(key string, dst *int) error {
	value, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("environment variable %s%s must be an integer: %v", envPrefix, key, err)
	}
	*dst = n
	return nil
}

// Validate checks that the values can run a server.
func (c Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTPPort)
	}
	if c.GridSize < constants.MinGridSize || c.GridSize > constants.MaxGridSize {
		return fmt.Errorf("grid size must be between %d and %d, got %d", constants.MinGridSize, constants.MaxGridSize, c.GridSize)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("tls cert file and key file must be set together")
	}
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Migrations returns the directory of migrations for the configured database.
func (c Config) Migrations() string {
	if c.MigrationsDir != "" {
		return c.MigrationsDir
	}
	scheme, _, _ := strings.Cut(c.DatabaseURL, "://")
	if scheme == "postgresql" {
		scheme = "postgres"
	}
	return filepath.Join("migrations", scheme)
}
