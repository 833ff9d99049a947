package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/youtube-dashboard-go/internal/classify"
	"github.com/kapu/youtube-dashboard-go/internal/store"
)

type Config struct {
	YouTube  YouTubeConfig
	Channel  ChannelConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Server   ServerConfig
	Sync     SyncConfig
	Logging  LoggingConfig
}

type YouTubeConfig struct {
	APIKey               string
	OAuthCredentialsFile string
	OAuthTokenFile       string
}

type ChannelConfig struct {
	ID               string
	ClassifierScheme string
}

type StorageConfig struct {
	Backend       string
	DataDir       string
	RetentionDays int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type AuthConfig struct {
	Password    string
	TokenSecret string
}

type ServerConfig struct {
	Host string
	Port int
}

type SyncConfig struct {
	Enabled  bool
	Interval time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		YouTube: YouTubeConfig{
			APIKey:               getEnv("YOUTUBE_API_KEY", ""),
			OAuthCredentialsFile: getEnv("YOUTUBE_OAUTH_CREDENTIALS", "credentials.json"),
			OAuthTokenFile:       getEnv("YOUTUBE_OAUTH_TOKEN", "token.json"),
		},
		Channel: ChannelConfig{
			ID:               getEnv("YOUTUBE_CHANNEL_ID", ""),
			ClassifierScheme: getEnv("CLASSIFIER_SCHEME", classify.SchemeHashtag),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", store.BackendFile),
			DataDir:       getEnv("DATA_DIR", "data"),
			RetentionDays: getEnvInt("RETENTION_DAYS", 30),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "dashboard"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "dashboard"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			Password:    getEnv("DASHBOARD_PASSWORD", ""),
			TokenSecret: getEnv("TOKEN_SECRET", ""),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Sync: SyncConfig{
			Enabled:  getEnvBool("SYNC_ENABLED", true),
			Interval: time.Duration(getEnvInt("SYNC_INTERVAL_MINUTES", 720)) * time.Minute,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Channel.ID == "" {
		return fmt.Errorf("YOUTUBE_CHANNEL_ID is required")
	}
	if c.Auth.Password == "" {
		return fmt.Errorf("DASHBOARD_PASSWORD is required")
	}
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}
	switch c.Channel.ClassifierScheme {
	case classify.SchemeHashtag, classify.SchemeKeyword:
	default:
		return fmt.Errorf("unknown CLASSIFIER_SCHEME %q", c.Channel.ClassifierScheme)
	}
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendRedis, store.BackendPostgres, store.BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.Storage.RetentionDays <= 0 {
		return fmt.Errorf("RETENTION_DAYS must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
