package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	DBPath          string
	MigrationsDir   string
	CORSOrigins     []string
	PasscodeHash    string
	JWTSecret       string
	TokenTTL        time.Duration
	SettingsPath    string
	HourHeight      float64
	SeedSamples     bool
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/calendar.db"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", ""),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"http://localhost:8081", "http://127.0.0.1:8081"}),
		PasscodeHash:    getEnv("API_PASSCODE_HASH", ""),
		JWTSecret:       getEnv("JWT_SECRET", "change-this-secret"),
		TokenTTL:        time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		SettingsPath:    getEnv("SETTINGS_PATH", defaultSettingsPath()),
		HourHeight:      getEnvFloat("HOUR_HEIGHT_PX", 80),
		SeedSamples:     getEnvBool("SEED_SAMPLE_EVENTS", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// AuthEnabled reports whether the API requires bearer tokens.
func (c Config) AuthEnabled() bool {
	return c.PasscodeHash != ""
}

func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./data/settings.yaml"
	}
	return filepath.Join(dir, "vibework", "settings.yaml")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
