package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/scrum-ai-master/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Str("gemini_model", cfg.Gemini.Model).
		Bool("sign_in", cfg.Auth.GoogleClientID != "").
		Bool("calendar_sync", cfg.Calendar.CalendarID != "").
		Msg("read env")

	config.SetGlobal(cfg)
}
