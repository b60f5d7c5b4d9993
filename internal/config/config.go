// Package config resolves runtime settings for the context store from
// environment variables, an optional .env file, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// DefaultStoreDir is the store root relative to the user's home.
	DefaultStoreDir = ".claude/.session_store"
	// DefaultPlansDir is where agent plan documents live, relative to home.
	DefaultPlansDir = ".claude/plans"
	// EnvFileName is the optional dotenv file read from the store root.
	EnvFileName = ".env"
)

// Config holds the settings shared by the server and the hooks.
type Config struct {
	StoreDir  string `env:"CONTEXT_STORE_DIR"`
	PlansDir  string `env:"CONTEXT_STORE_PLANS_DIR"`
	EnvFile   string `env:"CONTEXT_STORE_ENV_FILE"`
	Debug     bool   `env:"CONTEXT_STORE_DEBUG"`
	LogFormat string `env:"CONTEXT_STORE_LOG_FORMAT" envDefault:"console"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		StoreDir:  filepath.Join(home, DefaultStoreDir),
		PlansDir:  filepath.Join(home, DefaultPlansDir),
		LogFormat: "console",
	}
}

// Load builds a Config from defaults, then the dotenv file, then the
// process environment. Variables already present in the environment are
// never overridden by the dotenv file.
func Load() (Config, error) {
	cfg := Default()

	envFile := os.Getenv("CONTEXT_STORE_ENV_FILE")
	if envFile == "" {
		storeDir := os.Getenv("CONTEXT_STORE_DIR")
		if storeDir == "" {
			storeDir = cfg.StoreDir
		}
		envFile = filepath.Join(ExpandHome(storeDir), EnvFileName)
	}
	if err := loadDotenv(ExpandHome(envFile)); err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.StoreDir = ExpandHome(cfg.StoreDir)
	cfg.PlansDir = ExpandHome(cfg.PlansDir)
	return cfg, nil
}

// loadDotenv applies path to the environment. A missing file is not an error.
func loadDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
