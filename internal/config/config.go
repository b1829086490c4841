package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	Log  Log        `envPrefix:"LOG_"`
	HTTP HTTPServer `envPrefix:"HTTP_"`
	API  API        `envPrefix:"API_"`
	Cart Cart       `envPrefix:"CART_"`
}

type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080"`
}

// API configures the backing REST API that owns all persistent state.
type API struct {
	BaseURL        string `env:"BASE_URL" envDefault:"http://localhost:9090"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"30"`
}

type Cart struct {
	// Storage key prefix for serialized guest carts.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"guest-carts"`
}

func Load() (*Config, error) {
	// .env is optional; production uses real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return &cfg, nil
}
