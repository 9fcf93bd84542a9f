// Package config loads typed configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config holds everything the service reads from the environment. A
// .env file in the working directory is loaded automatically.
type Config struct {
	Port          int           `env:"PORT" envDefault:"8080"`
	DatabaseURL   string        `env:"DB_STRING,required"`
	SessionSecret string        `env:"SESSION_SECRET,required"`
	FrontendURL   string        `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	SettleDelay   time.Duration `env:"SETTLE_DELAY" envDefault:"5s"`
	RunMigrations bool          `env:"RUN_MIGRATIONS" envDefault:"false"`

	S3Bucket   string `env:"AWS_S3_BUCKET"`
	S3Region   string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Endpoint string `env:"AWS_ENDPOINT_URL"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	OAuthCallbackURL   string `env:"OAUTH_CALLBACK_URL" envDefault:"http://localhost:8080"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
