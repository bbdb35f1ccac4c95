package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Storage struct {
		// Backend selects the state store: "file" or "redis".
		Backend  string `env:"STORAGE_BACKEND" envDefault:"file"`
		FilePath string `env:"STATE_FILE" envDefault:"data.json"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Discord struct {
		BotToken string `env:"BOT_TOKEN,required"`
		// GuildID scopes slash command registration to a single test guild.
		// Empty registers commands globally.
		GuildID string `env:"GUILD_ID" envDefault:""`
	}

	Sweep struct {
		Interval     time.Duration `env:"SWEEP_INTERVAL" envDefault:"10s"`
		FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine; in production the variables are set directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
