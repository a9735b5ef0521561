package backend

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/meikuraledutech/wfgraph"
)

// Config selects and configures the storage backend.
type Config struct {
	Backend       string // memory, postgres, redis, fs or sqlite
	Key           string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Dir           string
	SQLitePath    string
	// Trace is empty (off), "stdout", or a file path for span output.
	Trace string
	Port  string
}

// Load reads the configuration from the environment, after loading the given .env files
// (".env" when none are named). Missing .env files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("backend: load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv reads the configuration from environment variables, applying defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Backend:       getenv("WFGRAPH_BACKEND", "fs"),
		Key:           getenv("WFGRAPH_KEY", wfgraph.DefaultKey),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Dir:           getenv("WFGRAPH_DIR", ".wfgraph"),
		SQLitePath:    getenv("WFGRAPH_SQLITE", "wfgraph.db"),
		Trace:         os.Getenv("WFGRAPH_TRACE"),
		Port:          getenv("PORT", "3000"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("backend: REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	return cfg, cfg.Validate()
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory", "fs", "sqlite", "redis":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("backend: DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("backend: unknown backend %q", c.Backend)
	}
	if c.Key == "" {
		return fmt.Errorf("backend: WFGRAPH_KEY is empty")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
