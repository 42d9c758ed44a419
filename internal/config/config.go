package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds environment-driven configuration. Values from an optional
// YAML file (CONFIG_FILE) are applied first; environment variables win.
type Config struct {
	Addr            string        `yaml:"addr"`
	DatabaseURL     string        `yaml:"database_url"`
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	RedisURL        string        `yaml:"redis_url"`
	LogLevel        string        `yaml:"log_level"`
	UploadMaxBytes  int           `yaml:"upload_max_bytes"`
	CORSOrigins     string        `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET must be set")
)

func defaults() Config {
	return Config{
		Addr:            ":8080",
		TokenTTL:        72 * time.Hour,
		LogLevel:        "info",
		UploadMaxBytes:  10 << 20,
		CORSOrigins:     "*",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads configuration from .env, CONFIG_FILE and the environment.
func Load() (Config, error) {
	// .env is optional, useful for local dev
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Addr, "APP_ADDR")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.CORSOrigins, "CORS_ORIGINS")

	if err := setDuration(&cfg.TokenTTL, "TOKEN_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT"); err != nil {
		return err
	}
	if v := os.Getenv("UPLOAD_MAX_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("UPLOAD_MAX_BYTES must be a positive integer, got %q", v)
		}
		cfg.UploadMaxBytes = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	*dst = d
	return nil
}
