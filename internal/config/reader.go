package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (cfg *Config) Validate() error {
	if cfg.Auth.GoogleClientID != "" && cfg.Auth.JWTSigningKey == "" {
		return errors.New("JWT_SIGNING_KEY is required when AUTH_GOOGLE_CLIENT_ID is set")
	}
	if cfg.Calendar.CalendarID != "" && cfg.Calendar.CredentialsFile == "" {
		return errors.New("CALENDAR_CREDENTIALS_FILE is required when CALENDAR_ID is set")
	}
	if cfg.Storage.Driver == "postgres" && cfg.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DATABASE is required for storage driver %q", cfg.Storage.Driver)
	}
	return nil
}
