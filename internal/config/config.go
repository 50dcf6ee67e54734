// Package config resolves CLI defaults from the environment and an optional
// .env file. Flags override everything here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB        = "GRAPHSMITH_DB"
	EnvFormat    = "GRAPHSMITH_FORMAT"
	EnvOutputDir = "GRAPHSMITH_OUTPUT_DIR"
	EnvStrict    = "GRAPHSMITH_STRICT"
)

// Defaults used when neither the environment nor a flag sets a value.
const (
	DefaultDB     = "graphsmith.db"
	DefaultFormat = "text"
)

// Config holds resolved settings.
type Config struct {
	// DBPath is the build archive used by --record, history and verify.
	DBPath string
	// Format is the default output format, "text" or "json".
	Format string
	// OutputDir is where build -o writes relative paths. Empty means the
	// working directory.
	OutputDir string
	// Strict checks references on every append instead of once at the end.
	Strict bool
}

// Load reads envFiles (or ./.env when none are given) into the process
// environment without overriding variables that are already set, then
// resolves the configuration. A missing ./.env is not an error; a missing
// named file is.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := &Config{
		DBPath:    firstNonEmpty(env(EnvDB), DefaultDB),
		Format:    firstNonEmpty(strings.ToLower(env(EnvFormat)), DefaultFormat),
		OutputDir: env(EnvOutputDir),
	}

	if raw := env(EnvStrict); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", EnvStrict, raw)
		}
		cfg.Strict = strict
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
