package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all runtime configuration. Values come from the environment,
// optionally seeded from a YAML file named by CONFIG_FILE.
type Config struct {
	Environment string        `yaml:"environment" env:"ENVIRONMENT" env-default:"dev"`
	Port        string        `yaml:"port" env:"PORT" env-default:"8080"`
	DatabaseURL string        `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL    time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
	CORSOrigins string        `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:3000"`
}

// Load reads configuration from the environment, layered over an optional
// YAML file.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}
