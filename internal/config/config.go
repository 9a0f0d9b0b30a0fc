// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Addr         string        `env:"GALAXIES_ADDR" envDefault:":8081"`
	DBPath       string        `env:"GALAXIES_DB_PATH" envDefault:"galaxies.db"`
	TickInterval time.Duration `env:"GALAXIES_TICK_INTERVAL" envDefault:"1s"`

	// SeedDefinition is an optional YAML game file imported into the catalog at boot.
	SeedDefinition string `env:"GALAXIES_SEED_DEFINITION"`
	SeedName       string `env:"GALAXIES_SEED_NAME" envDefault:"Default Universe"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files, then the environment.
// Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval <= 0 {
		return Config{}, fmt.Errorf("GALAXIES_TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	return cfg, nil
}
