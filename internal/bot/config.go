package bot

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken string     `env:"DISCORD_TOKEN,notEmpty"`
	LogLevel     slog.Level `env:"LOG_LEVEL"               envDefault:"info"`
}

// LoadConfig loads configuration from environment variables.
// Variables from a .env file in the working directory are loaded first,
// without overriding ones already set.
// Returns an error if required fields are missing or LOG_LEVEL is not a
// slog level name (debug, info, warn or error).
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
