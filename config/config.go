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
	Server   ServerConfig
	Database DatabaseConfig
	Upstream UpstreamConfig
	List     ListConfig
	Session  SessionConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

// DatabaseConfig selects the session store. When neither URL nor Host is
// set, sessions live in memory.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration // 0 leaves the transport default
}

type ListConfig struct {
	DebounceWindow time.Duration
}

type SessionConfig struct {
	MaxIdle       time.Duration
	SweepInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() *Config {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Mode: getEnv("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "legisdash"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_BASE_URL", "http://localhost:8000/api/v1"),
			Timeout: getDuration("UPSTREAM_TIMEOUT", 0),
		},
		List: ListConfig{
			DebounceWindow: getDuration("DEBOUNCE_WINDOW", 500*time.Millisecond),
		},
		Session: SessionConfig{
			MaxIdle:       getDuration("SESSION_MAX_IDLE", 30*time.Minute),
			SweepInterval: getDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBool("LOG_PRETTY", false),
		},
	}
}

// Enabled reports whether a Postgres store is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
