// Package config handles loading runtime configuration for the golf scoring API.
// Every setting comes from an environment variable so one binary runs unchanged in
// development, staging and production; only the environment differs between them.
// A .env file in the working directory is loaded first for local development.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	// godotenv copies key=value pairs from a .env file into the process environment.
	// Variables that are already set win over the file.
	"github.com/joho/godotenv"
	// yaml.v3 parses the optional format alias file (see LoadFormatAliases).
	"gopkg.in/yaml.v3"

	"github.com/trentd187/golf-scoring/internal/scoring"
)

// Config holds every runtime setting the server needs.
type Config struct {
	Port              string     // TCP port the HTTP server listens on (e.g. "8080")
	DatabaseURL       string     // PostgreSQL connection string
	ClerkSecretKey    string     // Clerk secret key, kept for server-side Clerk API calls
	JWTSecret         string     // HMAC key used to verify bearer tokens; empty skips verification (development only)
	Env               string     // "development", "staging" or "production"
	LogLevel          slog.Level // Minimum level written by the application logger
	MigrationsPath    string     // Directory holding the numbered .sql migration files
	FormatAliasesFile string     // Optional YAML file with extra free-text format names
	MetricsEnabled    bool       // Expose GET /metrics and record engine metrics
}

// Load reads the configuration from the environment (after loading .env if present).
// It only fails on values that are set but malformed; missing optional values get defaults.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development, so the error is ignored.
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ClerkSecretKey:    os.Getenv("CLERK_SECRET_KEY"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		Env:               getenv("ENV", "development"),
		MigrationsPath:    getenv("MIGRATIONS_PATH", "migrations"),
		FormatAliasesFile: os.Getenv("FORMAT_ALIASES_FILE"),
		MetricsEnabled:    true,
	}

	// slog.Level understands "debug", "info", "warn", "error" (and offsets like "info+2").
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if raw := os.Getenv("METRICS_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("METRICS_ENABLED: %w", err)
		}
		cfg.MetricsEnabled = enabled
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// NewLogger builds the application logger: JSON lines in production so log shippers can
// parse them, human-readable text everywhere else.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if c.IsProduction() {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With(slog.String("env", c.Env))
}

// FormatRegistry builds the format name registry: the built-in aliases plus whatever
// FormatAliasesFile adds. With no file configured the built-in registry is returned.
func (c *Config) FormatRegistry() (*scoring.FormatRegistry, error) {
	if c.FormatAliasesFile == "" {
		return scoring.DefaultFormats, nil
	}
	extra, err := LoadFormatAliases(c.FormatAliasesFile)
	if err != nil {
		return nil, err
	}
	return scoring.NewFormatRegistry(extra)
}

// aliasFile is the shape of the alias YAML document:
//
//	aliases:
//	  sunday game: wolf-handicap
//	  "2 man best ball": match-play-handicap-2v2
type aliasFile struct {
	Aliases map[string]scoring.FormatCode `yaml:"aliases"`
}

// LoadFormatAliases reads extra format aliases from a YAML file. Targets are validated when
// the registry is built, so a typo in the file stops the server at startup.
func LoadFormatAliases(path string) (map[string]scoring.FormatCode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read format aliases: %w", err)
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse format aliases %s: %w", path, err)
	}
	return f.Aliases, nil
}

// getenv returns the variable's value, or def when it is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
