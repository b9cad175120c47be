package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	AppEnv          string
	LogLevel        string
	DBUser          string
	DBPassword      string
	DBHost          string
	DBName          string
	DatabaseURL     string // Overrides the URI built from the DB_* values
	AllowedOrigins  []string
	ConnectTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:            getEnv("PORT", "3000"),
		AppEnv:          getEnv("APP_ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBUser:          getEnv("DB_USER", ""),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		DBHost:          getEnv("DB_HOST", "cluster0.dmztt.mongodb.net"),
		DBName:          getEnv("DB_NAME", "selectifyDB"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
		ConnectTimeout:  getDuration("CONNECT_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// StoreURI returns DATABASE_URL when set, otherwise the Atlas SRV URI built
// from the credential variables.
func (c *Config) StoreURI() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     c.DBHost,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=Cluster0",
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

// IsDevelopment reports whether human-readable console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "local" || c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
