package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int    `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./time_tracker.db"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AppEnv       string `env:"APP_ENV" envDefault:"development"`
}

// Load reads configuration from the environment, after loading a local .env
// file when one is present. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
