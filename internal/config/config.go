package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime settings. Values come from the environment,
// with a .env file loaded first if one exists.
type Config struct {
	DiscordToken      string        `env:"DISCORD_TOKEN,required,notEmpty"`
	StoragePath       string        `env:"STORAGE_PATH" envDefault:"data/sounds.json"`
	CachePath         string        `env:"CACHE_PATH" envDefault:"data/cache.json"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"168h"`
	MaxSoundsPerGuild int           `env:"MAX_SOUNDS_PER_GUILD" envDefault:"100"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"15m"`
	JoinTimeout       time.Duration `env:"JOIN_TIMEOUT" envDefault:"30s"`
	ReconnectWindow   time.Duration `env:"RECONNECT_WINDOW" envDefault:"5s"`
	TempDir           string        `env:"TEMP_DIR"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile           string        `env:"LOG_FILE"`
	InitSlashCommands bool          `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

// New loads the configuration from the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	return cfg, nil
}
