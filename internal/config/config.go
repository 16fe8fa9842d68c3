package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Models   ModelConfig
	Training TrainingConfig
	Features FeatureConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// ModelConfig holds model artifact storage configuration
type ModelConfig struct {
	Dir string
}

// TrainingConfig holds the weekly retrain schedule
type TrainingConfig struct {
	Weekday time.Weekday
	Hour    int
}

// FeatureConfig holds feature engineering parameters
type FeatureConfig struct {
	WindowMonths int
}

func Load() (*Config, error) {
	// Missing .env is fine, env vars may come from the environment directly
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "tactic_hr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Model artifact storage
	config.Models = ModelConfig{
		Dir: getEnv("MODEL_DIR", "trained_models"),
	}

	// Weekly retraining schedule (default: Sunday 02:00)
	weekday, err := parseWeekday(getEnv("TRAIN_WEEKDAY", "sunday"))
	if err != nil {
		return nil, err
	}
	trainHour, err := strconv.Atoi(getEnv("TRAIN_HOUR", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRAIN_HOUR: %w", err)
	}
	if trainHour < 0 || trainHour > 23 {
		return nil, fmt.Errorf("TRAIN_HOUR must be between 0 and 23, got %d", trainHour)
	}
	config.Training = TrainingConfig{
		Weekday: weekday,
		Hour:    trainHour,
	}

	// Feature window
	windowMonths, err := strconv.Atoi(getEnv("FEATURE_WINDOW_MONTHS", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEATURE_WINDOW_MONTHS: %w", err)
	}
	config.Features = FeatureConfig{
		WindowMonths: windowMonths,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Models.Dir == "" {
		return fmt.Errorf("MODEL_DIR is required")
	}
	if c.Features.WindowMonths < 1 {
		return fmt.Errorf("FEATURE_WINDOW_MONTHS must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	if wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return wd, nil
	}
	return time.Sunday, fmt.Errorf("invalid TRAIN_WEEKDAY: %q", s)
}
