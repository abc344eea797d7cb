package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env       string `env:"ENV" env-required:"true"`
	HTTP      HTTPConfig
	Storage   StorageConfig
	Postgres  PostgresConfig
	Gemini    GeminiConfig
	Auth      AuthConfig
	Calendar  CalendarConfig
	Board     BoardConfig
	Ingestion IngestionConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// StorageConfig selects where the board is saved: memory, postgres,
// sqlite or mysql. DSN is ignored by memory and postgres.
type StorageConfig struct {
	Driver      string        `env:"STORAGE_DRIVER" env-default:"sqlite"`
	DSN         string        `env:"STORAGE_DSN" env-default:"file:scrum-ai-master.db"`
	SaveTimeout time.Duration `env:"STORAGE_SAVE_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

type GeminiConfig struct {
	APIKey  string        `env:"GEMINI_API_KEY" env-required:"true"`
	Model   string        `env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
	Timeout time.Duration `env:"GEMINI_TIMEOUT" env-default:"0s"`
}

// AuthConfig enables Google sign-in when GoogleClientID is set.
type AuthConfig struct {
	GoogleClientID    string        `env:"AUTH_GOOGLE_CLIENT_ID"`
	JWTIssuer         string        `env:"JWT_ISSUER" env-default:"scrum-ai-master"`
	JWTSigningKey     string        `env:"JWT_SIGNING_KEY"`
	JWTAccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"12h"`
}

// CalendarConfig enables stand-up sync when CalendarID is set.
type CalendarConfig struct {
	CalendarID      string `env:"CALENDAR_ID"`
	CredentialsFile string `env:"CALENDAR_CREDENTIALS_FILE"`
	TimeZone        string `env:"CALENDAR_TIME_ZONE" env-default:"UTC"`
}

type BoardConfig struct {
	SeedFile    string `env:"BOARD_SEED_FILE"`
	MeetingTime string `env:"BOARD_MEETING_TIME" env-default:"09:30 AM"`
}

type IngestionConfig struct {
	MaxBytes int64 `env:"INGESTION_MAX_BYTES" env-default:"20971520"`
}
