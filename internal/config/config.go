// Package config loads the gridnet configuration file.
//
// The file is TOML and is looked up in this order; the first existing file
// wins and a missing file means defaults:
//
//  1. $GRIDNET_CONFIG
//  2. ./gridnet.toml
//  3. $XDG_CONFIG_HOME/gridnet/config.toml (~/.config/gridnet/config.toml)
//
// Example:
//
//	log_level = "debug"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[render]
//	format = "svg"
//	detailed = true
//
//	[check]
//	nodes = 40
//	rounds = 50
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

const appName = "gridnet"

// EnvPath names the environment variable holding an explicit config path.
const EnvPath = "GRIDNET_CONFIG"

// Cache backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Config is the whole configuration file.
type Config struct {
	LogLevel string       `toml:"log_level"`
	Cache    CacheConfig  `toml:"cache"`
	Render   RenderConfig `toml:"render"`
	Check    CheckConfig  `toml:"check"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir,omitempty"`
	SQLitePath    string   `toml:"sqlite_path,omitempty"`
	RedisAddr     string   `toml:"redis_addr,omitempty"`
	RedisPassword string   `toml:"redis_password,omitempty"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// RenderConfig holds defaults for `gridnet render`.
type RenderConfig struct {
	Format   string `toml:"format"`
	Detailed bool   `toml:"detailed"`
}

// CheckConfig holds defaults for `gridnet check`.
type CheckConfig struct {
	Nodes           int     `toml:"nodes"`
	Kinds           int     `toml:"kinds"`
	Steps           int     `toml:"steps"`
	Rounds          int     `toml:"rounds"`
	EdgeProbability float64 `toml:"edge_probability"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct{ time.Duration }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  appName + ":",
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Render: RenderConfig{Format: "svg"},
		Check:  CheckConfig{Nodes: 30, Kinds: 2, Steps: 200, Rounds: 20, EdgeProbability: 0.1},
	}
}

// Path returns the config file that Load would read and whether it exists.
// When none exists it returns the user-level path.
func Path() (string, bool) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, fileExists(p)
	}
	if fileExists(appName + ".toml") {
		return appName + ".toml", true
	}
	p := userPath()
	return p, p != "" && fileExists(p)
}

// Load reads the config file found by [Path], or returns defaults when there
// is none. It returns the path that was read, empty for defaults.
func Load() (Config, string, error) {
	path, ok := Path()
	if !ok {
		if os.Getenv(EnvPath) != "" {
			return Config{}, "", errs.New(errs.ErrCodeFileNotFound, "config %s (from $%s) does not exist", path, EnvPath)
		}
		return Default(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile reads one config file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.LogLevel) {
		return errs.New(errs.ErrCodeInvalidConfig, "log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendSQLite, BackendNone}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend %q: want file, redis, sqlite or none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Render.Format != "svg" && c.Render.Format != "dot" {
		return errs.New(errs.ErrCodeInvalidConfig, "render.format %q: want svg or dot", c.Render.Format)
	}
	if c.Check.Nodes < 2 || c.Check.Kinds < 1 || c.Check.Steps < 1 || c.Check.Rounds < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "check: nodes >= 2, kinds, steps and rounds >= 1")
	}
	if c.Check.EdgeProbability <= 0 || c.Check.EdgeProbability > 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "check.edge_probability %v: want (0, 1]", c.Check.EdgeProbability)
	}
	return nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// CacheDir returns the file cache directory: the configured one, or the XDG
// cache home (~/.cache/gridnet).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// SQLitePath returns the database of the sqlite backend: the configured one,
// or cache.db inside [Config.CacheDir].
func (c Config) SQLitePath() (string, error) {
	if c.Cache.SQLitePath != "" {
		return c.Cache.SQLitePath, nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

func userPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
