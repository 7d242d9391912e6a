package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const devJWTSecret = "dev-secret-change-in-production"

// ErrInsecureSecret is returned when production runs with the development JWT secret.
var ErrInsecureSecret = errors.New("config: JWT_SECRET must be set in production environment")

type Config struct {
	Port                string
	Env                 string
	LogLevel            string
	DatabaseDSN         string
	JWTSecret           string
	JWTExpiry           time.Duration
	DBConnectMaxBackoff time.Duration
	CORSAllowedOrigins  []string
}

// fileConfig mirrors Config for the optional YAML file. Durations stay strings
// so both the file and the environment go through time.ParseDuration.
type fileConfig struct {
	Port                string   `yaml:"port"`
	Env                 string   `yaml:"env"`
	LogLevel            string   `yaml:"logLevel"`
	DatabaseDSN         string   `yaml:"databaseDsn"`
	JWTSecret           string   `yaml:"jwtSecret"`
	JWTExpiry           string   `yaml:"jwtExpiry"`
	DBConnectMaxBackoff string   `yaml:"dbConnectMaxBackoff"`
	CORSAllowedOrigins  []string `yaml:"corsAllowedOrigins"`
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	fc := fileConfig{
		Port:                "8080",
		Env:                 "development",
		LogLevel:            "info",
		DatabaseDSN:         "root:password@tcp(127.0.0.1:3306)/chargehub?parseTime=true",
		JWTSecret:           devJWTSecret,
		JWTExpiry:           "24h",
		DBConnectMaxBackoff: "30s",
		CORSAllowedOrigins:  []string{"*"},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("config: decode yaml: %w", err)
		}
	}

	cfg := Config{
		Port:               getEnv("PORT", fc.Port),
		Env:                getEnv("ENV", fc.Env),
		LogLevel:           getEnv("LOG_LEVEL", fc.LogLevel),
		DatabaseDSN:        getEnv("DATABASE_DSN", fc.DatabaseDSN),
		JWTSecret:          getEnv("JWT_SECRET", fc.JWTSecret),
		CORSAllowedOrigins: fc.CORSAllowedOrigins,
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	var err error
	if cfg.JWTExpiry, err = parseDuration("JWT_EXPIRY", getEnv("JWT_EXPIRY", fc.JWTExpiry)); err != nil {
		return Config{}, err
	}
	if cfg.DBConnectMaxBackoff, err = parseDuration("DB_CONNECT_MAX_BACKOFF", getEnv("DB_CONNECT_MAX_BACKOFF", fc.DBConnectMaxBackoff)); err != nil {
		return Config{}, err
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return Config{}, ErrInsecureSecret
	}

	return cfg, nil
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, raw)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
