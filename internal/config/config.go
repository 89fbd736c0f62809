// Package config loads runtime settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the benchmark runner. Flags override
// these after loading.
type Config struct {
	Matches     int    `env:"CAMBIO_MATCHES" envDefault:"100"`
	PointLimit  int    `env:"CAMBIO_POINT_LIMIT" envDefault:"100"`
	MaxTurns    int    `env:"CAMBIO_MAX_TURNS" envDefault:"50"`
	Parallelism int    `env:"CAMBIO_PARALLELISM" envDefault:"0"`
	Seed        uint64 `env:"CAMBIO_SEED" envDefault:"1"`
	LogLevel    string `env:"CAMBIO_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
