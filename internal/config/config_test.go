package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "1h30m"

[check]
rounds = 5
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Check.Rounds != 5 || cfg.Check.Nodes != Default().Check.Nodes {
		t.Errorf("Check = %+v, unset fields should keep defaults", cfg.Check)
	}
	if cfg.Cache.Prefix != "gridnet:" {
		t.Errorf("Prefix = %q", cfg.Cache.Prefix)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour = \"red\"\n", "unknown keys: colour"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", "parse"},
		{"bad format", "[render]\nformat = \"pdf\"\n", "render.format"},
		{"bad level", "log_level = \"loud\"\n", "log_level"},
		{"bad probability", "[check]\nedge_probability = 1.5\n", "edge_probability"},
		{"syntax", "log_level = \n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("code = %s", errs.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadLookupOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv(EnvPath, "")

	// Nothing anywhere: defaults.
	cfg, path, err := Load()
	if err != nil || path != "" {
		t.Fatalf("Load() = %q, %v", path, err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}

	// User-level file.
	userDir := filepath.Join(dir, "xdg", "gridnet")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "config.toml"), []byte("log_level = \"warn\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _ = Load()
	if cfg.LogLevel != "warn" {
		t.Errorf("user config: LogLevel = %q", cfg.LogLevel)
	}

	// Project file beats user file.
	if err := os.WriteFile("gridnet.toml", []byte("log_level = \"error\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, path, _ = Load()
	if cfg.LogLevel != "error" || path != "gridnet.toml" {
		t.Errorf("project config: LogLevel = %q, path = %q", cfg.LogLevel, path)
	}

	// Environment beats both.
	t.Setenv(EnvPath, writeConfig(t, "log_level = \"debug\"\n"))
	cfg, _, _ = Load()
	if cfg.LogLevel != "debug" {
		t.Errorf("env config: LogLevel = %q", cfg.LogLevel)
	}

	// A missing explicit file is an error.
	t.Setenv(EnvPath, filepath.Join(dir, "missing.toml"))
	if _, _, err := Load(); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing $%s: err = %v", EnvPath, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `ttl = "168h0m0s"`) {
		t.Errorf("encoded config:\n%s", buf.String())
	}
	cfg, err := LoadFile(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg != Default() {
		t.Errorf("round trip changed config: %+v", cfg)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := Default().CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "gridnet") {
		t.Errorf("CacheDir = %s", dir)
	}

	cfg := Default()
	cfg.Cache.Dir = "/var/cache/grid"
	if dir, _ := cfg.CacheDir(); dir != "/var/cache/grid" {
		t.Errorf("configured CacheDir = %s", dir)
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()
	cfg.Cache.Dir = "/var/cache/grid"
	if p, _ := cfg.SQLitePath(); p != filepath.Join("/var/cache/grid", "cache.db") {
		t.Errorf("default SQLitePath = %s", p)
	}
	cfg.Cache.SQLitePath = "/srv/artifacts.db"
	if p, _ := cfg.SQLitePath(); p != "/srv/artifacts.db" {
		t.Errorf("configured SQLitePath = %s", p)
	}
}
