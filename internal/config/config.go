package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	seedclient "github.com/GregMSThompson/transactions-backend/internal/client/seed"
)

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

var validBackends = []string{BackendSQLite, BackendFirestore, BackendPostgres}

type Config struct {
	// HTTP server
	Port            string
	ShutdownTimeout time.Duration
	LogLevel        string

	// Store
	DataBackend  string
	SQLiteDBPath string
	DatabaseURL  string
	ProjectID    string

	// Seed source
	SeedURL     string
	SeedTimeout time.Duration

	// Result cache, disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// New loads an optional .env file and reads the configuration from the environment.
func New() *Config {
	_ = godotenv.Load()
	return Load()
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		DataBackend:  getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/transactions.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		ProjectID:    getEnv("PROJECT_ID", ""),

		SeedURL:     getEnv("SEED_URL", seedclient.DefaultURL),
		SeedTimeout: getEnvDuration("SEED_TIMEOUT", 30*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH cannot be empty when using sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when using postgres backend")
		}
	case BackendFirestore:
		if c.ProjectID == "" {
			problems = append(problems, "PROJECT_ID is required when using firestore backend")
		}
	}

	if u, err := url.Parse(c.SeedURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid seed URL '%s': %v", c.SeedURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid seed URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.SeedTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid seed timeout %v: must be positive", c.SeedTimeout))
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if c.RedisAddr != "" {
		if c.RedisDB < 0 {
			problems = append(problems, fmt.Sprintf("invalid redis db %d: must not be negative", c.RedisDB))
		}
		if c.CacheTTL <= 0 {
			problems = append(problems, fmt.Sprintf("invalid cache ttl %v: must be positive", c.CacheTTL))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
