// README: Config loader; .env support plus ROVIS_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Provider selects the backing implementation for the route and places services.
const (
	ProviderMock   = "mock"
	ProviderGoogle = "google"
)

type Config struct {
	HTTP struct {
		Addr string `envconfig:"ROVIS_HTTP_ADDR" default:":8080"`
	}

	AI struct {
		GeminiKey   string  `envconfig:"GEMINI_API_KEY"`
		Model       string  `envconfig:"ROVIS_GEMINI_MODEL" default:"gemini-2.0-flash"`
		Temperature float32 `envconfig:"ROVIS_GEMINI_TEMPERATURE" default:"0.4"`
	}

	Maps struct {
		Provider  string `envconfig:"ROVIS_PROVIDER" default:"mock"`
		GoogleKey string `envconfig:"GOOGLE_MAPS_API_KEY"`
	}

	// Optional infrastructure. Empty values disable the backend.
	Redis struct {
		URL string `envconfig:"ROVIS_REDIS_URL"`
		TTL int    `envconfig:"ROVIS_SESSION_TTL_HOURS" default:"24"`
	}
	DB struct {
		DSN string `envconfig:"ROVIS_DB_DSN"`
	}

	Agent struct {
		HistoryWindow int    `envconfig:"ROVIS_HISTORY_WINDOW" default:"50"`
		OffTopicWarn  int    `envconfig:"ROVIS_OFFTOPIC_WARN" default:"5"`
		OffTopicStop  int    `envconfig:"ROVIS_OFFTOPIC_STOP" default:"8"`
		Timezone      string `envconfig:"ROVIS_TIMEZONE" default:"America/New_York"`
	}
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if cfg.AI.GeminiKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.Maps.Provider == ProviderGoogle && cfg.Maps.GoogleKey == "" {
		return Config{}, fmt.Errorf("GOOGLE_MAPS_API_KEY is required when ROVIS_PROVIDER=google")
	}
	if cfg.Agent.OffTopicWarn >= cfg.Agent.OffTopicStop {
		return Config{}, fmt.Errorf("ROVIS_OFFTOPIC_WARN (%d) must be below ROVIS_OFFTOPIC_STOP (%d)",
			cfg.Agent.OffTopicWarn, cfg.Agent.OffTopicStop)
	}
	return cfg, nil
}

// SessionTTL converts the configured TTL to a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Redis.TTL) * time.Hour
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Agent.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Agent.Timezone, err)
	}
	return loc, nil
}
