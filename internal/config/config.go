package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds application configuration. Precedence, lowest to
// highest: built-in defaults, TOML config file, flags, JOBS_* env.
type Config struct {
	Port         int
	DBPath       string
	QueryTimeout time.Duration
	CORSOrigins  []string
}

// fileConfig is the TOML shape of the optional config file.
type fileConfig struct {
	Port         int      `toml:"port"`
	DBPath       string   `toml:"db_path"`
	QueryTimeout string   `toml:"query_timeout"`
	CORSOrigins  []string `toml:"cors_origins"`
}

// DefaultDBPath returns the default store path using XDG_DATA_HOME.
// This is where the ingestion pipeline writes its SQLite file.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "jobs", "jobs.db")
}

// Load parses the command line and environment to build Config.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{
		Port:         8080,
		DBPath:       DefaultDBPath(),
		QueryTimeout: 5 * time.Second,
		CORSOrigins:  []string{"*"},
	}

	fs := flag.NewFlagSet("jobsd", flag.ContinueOnError)
	configPath := fs.String("config", "", "TOML config file path")
	port := fs.Int("port", cfg.Port, "HTTP server port")
	dbPath := fs.String("db", cfg.DBPath, "SQLite store path (written by the scraper)")
	queryTimeout := fs.Duration("query-timeout", cfg.QueryTimeout, "Per-query timeout")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configPath != "" {
		if err := applyFile(cfg, *configPath); err != nil {
			return nil, err
		}
	}

	// Explicitly set flags win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "db":
			cfg.DBPath = *dbPath
		case "query-timeout":
			cfg.QueryTimeout = *queryTimeout
		case "cors-origins":
			cfg.CORSOrigins = splitOrigins(*corsOrigins)
		}
	})

	applyEnv(cfg)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.QueryTimeout != "" {
		d, err := time.ParseDuration(fc.QueryTimeout)
		if err != nil {
			return fmt.Errorf("config file %s: query_timeout: %w", path, err)
		}
		cfg.QueryTimeout = d
	}
	if len(fc.CORSOrigins) > 0 {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	return nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("JOBS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if db := os.Getenv("JOBS_DB"); db != "" {
		cfg.DBPath = db
	}
	if timeout := os.Getenv("JOBS_QUERY_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.QueryTimeout = d
		}
	}
	if origins := os.Getenv("JOBS_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitOrigins(origins)
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
