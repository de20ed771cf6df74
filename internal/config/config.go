package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings of both the wizard service and the reference API
type Config struct {
	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	HTTPPort string // wizard service
	APIPort  string // reference survey API

	SurveyAPIURL string
	SurveyAPIKey string
	SurveyID     int64

	JWTSecret   string
	TokenTTL    time.Duration
	SessionTTL  time.Duration
	SurveyTTL   time.Duration
	HTTPTimeout time.Duration
}

// Load reads an optional .env file, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "encuesta"),
		RedisAddr:     strings.TrimPrefix(getEnv("REDIS_ADDR", "localhost:6379"), "redis://"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		APIPort:       getEnv("API_PORT", "8000"),
		SurveyAPIURL:  getEnv("SURVEY_API_URL", "http://localhost:8000"),
		SurveyAPIKey:  getEnv("SURVEY_API_KEY", ""),
		JWTSecret:     getEnv("JWT_SECRET", "encuesta-dev-secret"),
	}

	var err error
	if cfg.SurveyID, err = strconv.ParseInt(getEnv("SURVEY_ID", "1"), 10, 64); err != nil {
		return nil, fmt.Errorf("SURVEY_ID: %w", err)
	}
	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"TOKEN_TTL", "24h", &cfg.TokenTTL},
		{"SESSION_TTL", "24h", &cfg.SessionTTL},
		{"SURVEY_TTL", "1h", &cfg.SurveyTTL},
		{"HTTP_TIMEOUT", "10s", &cfg.HTTPTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = time.ParseDuration(getEnv(d.key, d.def)); err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SurveyID <= 0 {
		return fmt.Errorf("SURVEY_ID must be positive, got %d", c.SurveyID)
	}
	if c.SurveyAPIURL == "" {
		return fmt.Errorf("SURVEY_API_URL is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
