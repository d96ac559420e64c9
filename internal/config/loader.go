package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or with -config
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// LoadDotEnv loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads the rc file, if any, then overlays environment variables.
func (l *Loader) Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		logrus.WithField("error", err).Warn("Failed to load .env")
	}
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		cfg, err = Parse(f)
		if err != nil {
			return nil, err
		}
		logrus.WithField("path", path).Debug("Loaded config")
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overlays CARTOONLAB_THEME, STORAGE_TYPE, LOCAL_STORAGE_PATH and
// DATA_SOURCE_NAME.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CARTOONLAB_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("LOCAL_STORAGE_PATH"); v != "" {
		c.SaveDir = v
	}
	if v := os.Getenv("DATA_SOURCE_NAME"); v != "" {
		c.DataSource = v
	}
}

// LogLevel returns the logrus level named by CARTOONLAB_LOG_LEVEL, or def.
func LogLevel(def logrus.Level) logrus.Level {
	v := strings.TrimSpace(os.Getenv("CARTOONLAB_LOG_LEVEL"))
	if v == "" {
		return def
	}
	lvl, err := logrus.ParseLevel(v)
	if err != nil {
		return def
	}
	return lvl
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".cartoonlabrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	if p := DefaultPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where "config save" writes.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cartoonlab", "config.rc")
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(c.String()), 0o644)
}
