package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDB2Driver is the database/sql driver name registered by go_ibm_db
const DefaultDB2Driver = "go_ibm_db"

// ErrIncomplete is returned by Validate when a required field is missing
var ErrIncomplete = errors.New("incomplete database configuration")

// DatabaseConfig represents a single database connection configuration
type DatabaseConfig struct {
	Engine   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	Driver   string // database/sql driver name, only used for db2
}

// Env provides environment variable access
type Env interface {
	// Get returns the value of an environment variable
	Get(key string) string

	// GetWithFallback returns the first non-empty value from the given keys
	GetWithFallback(keys ...string) string
}

// OSEnv reads the process environment
type OSEnv struct{}

func (OSEnv) Get(key string) string {
	return os.Getenv(key)
}

func (OSEnv) GetWithFallback(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

// MapEnv uses an in-memory map (for testing)
type MapEnv map[string]string

func (m MapEnv) Get(key string) string {
	return m[key]
}

func (m MapEnv) GetWithFallback(keys ...string) string {
	for _, key := range keys {
		if val := m[key]; val != "" {
			return val
		}
	}
	return ""
}

// LoadEnv loads .env files if present. With no arguments it loads ./.env.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...) // Silently ignore missing files
}

// Load reads connection defaults from the environment.
// Checks DB2_* first, then falls back to unprefixed DB_* variables
func Load(env Env) DatabaseConfig {
	cfg := DatabaseConfig{
		Engine:   NormalizeEngine(env.GetWithFallback("DB2_ENGINE", "DB_ENGINE", "DB_CONNECTION")),
		Host:     env.GetWithFallback("DB2_HOST", "DB_HOST"),
		Port:     env.GetWithFallback("DB2_PORT", "DB_PORT"),
		Database: env.GetWithFallback("DB2_DATABASE", "DB2_NAME", "DB_DATABASE", "DB_NAME"),
		User:     env.GetWithFallback("DB2_USER", "DB2_USERNAME", "DB_USER", "DB_USERNAME"),
		Password: env.GetWithFallback("DB2_PASSWORD", "DB_PASSWORD"),
		Driver:   env.GetWithFallback("DB2_DRIVER"),
	}
	if cfg.Driver == "" {
		cfg.Driver = DefaultDB2Driver
	}
	return cfg
}

// HasDefaults returns true if the environment supplied any connection field
func HasDefaults(cfg DatabaseConfig) bool {
	return cfg.Host != "" || cfg.User != "" || cfg.Database != ""
}

// DefaultPort returns the default port for a given database engine
func DefaultPort(engine string) string {
	switch NormalizeEngine(engine) {
	case "db2":
		return "50000"
	case "pgsql":
		return "5432"
	default:
		return "3306"
	}
}

// NormalizeEngine normalizes engine names to consistent values
func NormalizeEngine(engine string) string {
	engine = strings.ToLower(strings.TrimSpace(engine))
	switch engine {
	case "db2", "ibm_db2", "ibm-db2":
		return "db2"
	case "postgres", "postgresql":
		return "pgsql"
	case "mysql", "mariadb":
		return "mysql"
	default:
		return engine
	}
}

// Validate checks that the fields needed to connect are present
func Validate(cfg DatabaseConfig) error {
	var missing []string
	if cfg.Engine == "" {
		missing = append(missing, "engine")
	}
	if cfg.Host == "" {
		missing = append(missing, "host")
	}
	if cfg.Database == "" {
		missing = append(missing, "database")
	}
	if cfg.User == "" {
		missing = append(missing, "user")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
