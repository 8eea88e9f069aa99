package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Backend   BackendConfig
	Events    EventsConfig
	Log       LogConfig
	DevServer DevServerConfig
}

// BackendConfig locates the remote resource hub API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// EventsConfig tunes the live invalidation subscription.
type EventsConfig struct {
	ReconnectMinBackoff time.Duration
	ReconnectMaxBackoff time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// DevServerConfig configures the bundled in-memory stub backend.
type DevServerConfig struct {
	Port           int
	MetricsEnabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Backend = BackendConfig{
		BaseURL: v.GetString("BACKEND_URL"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
	}

	cfg.Events = EventsConfig{
		ReconnectMinBackoff: parseDuration(v.GetString("EVENTS_RECONNECT_MIN_BACKOFF"), time.Second),
		ReconnectMaxBackoff: parseDuration(v.GetString("EVENTS_RECONNECT_MAX_BACKOFF"), 30*time.Second),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.DevServer = DevServerConfig{
		Port:           v.GetInt("DEVSERVER_PORT"),
		MetricsEnabled: v.GetBool("DEVSERVER_ENABLE_METRICS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("BACKEND_URL", "http://localhost:8080")
	v.SetDefault("BACKEND_TIMEOUT", "10s")

	v.SetDefault("EVENTS_RECONNECT_MIN_BACKOFF", "1s")
	v.SetDefault("EVENTS_RECONNECT_MAX_BACKOFF", "30s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DEVSERVER_PORT", 8080)
	v.SetDefault("DEVSERVER_ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
