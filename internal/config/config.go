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

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           string
	AppURL         string // CORS origin, "*" allows any
	MetricsEnabled bool

	// Database configuration
	DBType            string // mysql, mariadb, postgres, sqlite, sqlite-pure, sqlserver
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Session configuration
	SessionSecret string
	SessionTTL    time.Duration
	RememberTTL   time.Duration
	CookieSecure  bool

	// Documents
	UploadDir         string
	MaxUploadBytes    int64
	ReconcileSchedule string
	OrphanGrace       time.Duration

	// OJT
	RequiredHours float64

	// Bootstrap admin account, created by seeding when AdminPassword is set
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	Log LogConfig
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level      string
	File       string
	Console    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load loads configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for tools that overlay their own settings first
func Read() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		AppURL:            getEnv("APP_URL", "*"),
		MetricsEnabled:    getEnvAsBool("METRICS_ENABLED", true),
		DBType:            getEnv("DB_TYPE", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBName:            getEnv("DB_NAME", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		RememberTTL:       getEnvAsDuration("REMEMBER_TTL", 30*24*time.Hour),
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", false),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads/documents"),
		MaxUploadBytes:    int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 15m"),
		OrphanGrace:       getEnvAsDuration("ORPHAN_GRACE", time.Hour),
		RequiredHours:     getEnvAsFloat("OJT_REQUIRED_HOURS", 480),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@ojt.local"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			Console:    getEnvAsBool("LOG_CONSOLE", true),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
		},
	}

	return cfg, nil
}

// Validate checks required fields and value ranges
func (cfg *Config) Validate() error {
	if cfg.DBName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if cfg.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if cfg.RequiredHours <= 0 {
		return fmt.Errorf("OJT_REQUIRED_HOURS must be positive")
	}
	return nil
}

// loadEnvFile reads ENV_FILE, or .env when present. An explicit ENV_FILE must exist.
func loadEnvFile() error {
	if path := os.Getenv("ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("15m") or a bare number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
