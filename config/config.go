package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	GeminiApiKey string
	Adapter      Adapter
	RateLimit    RateLimit
	Guard        Guard
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Adapter bounds the personalization chain. A hung gateway call falls back
// to the static question once the timeout expires.
type Adapter struct {
	Timeout time.Duration
}

type RateLimit struct {
	Limit         int
	WindowSeconds int
}

// Guard holds the trigger phrases for the draft relevance check. The set is
// deployment-specific, so it is configurable rather than compiled in.
type Guard struct {
	Triggers []string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("ADAPTER_TIMEOUT_SECONDS", 25)
	viper.SetDefault("RATE_LIMIT", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("GUARD_TRIGGERS", "stray dog,stray dogs,dog,dogs,dog attack,attacked by")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	config.Adapter.Timeout = time.Duration(viper.GetInt("ADAPTER_TIMEOUT_SECONDS")) * time.Second
	config.RateLimit.Limit = viper.GetInt("RATE_LIMIT")
	config.RateLimit.WindowSeconds = viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")

	for _, t := range strings.Split(viper.GetString("GUARD_TRIGGERS"), ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			config.Guard.Triggers = append(config.Guard.Triggers, trimmed)
		}
	}

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
