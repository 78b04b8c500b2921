package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridnet/internal/config"
	"github.com/matzehuels/gridnet/pkg/buildinfo"
	"github.com/matzehuels/gridnet/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridnet"

	// artifactKeyType labels rendered artifacts in cache metrics.
	artifactKeyType = "artifact"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	// configPath is the file Config was read from, empty for defaults.
	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridnet keeps a graph partitioned into connected networks",
		Long: `Gridnet maintains the partition of a dynamic graph into connected networks
of like-kinded nodes as nodes come and go and links are made and cut.

It plays scenario files against the partition engine, checks the engine
against an independent oracle on random graphs and renders the result.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level. It runs before
// every command so flags can fall back to config values.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, path, err := config.Load()
	if err != nil {
		return err
	}
	c.Config, c.configPath = cfg, path

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the artifact cache selected by the config. A redis server
// that cannot be reached degrades to no caching with a warning, the same as
// an unusable cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (*cache.Instrumented, cache.Keyer, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.Instrument(cache.NewNullCache(), artifactKeyType), cache.NewDefaultKeyer(), nil
	}

	switch cfg.Backend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.Instrument(cache.NewNullCache(), artifactKeyType), cache.NewDefaultKeyer(), nil
		}
		return cache.Instrument(rc, artifactKeyType), cache.NewScopedKeyer(nil, cfg.Prefix), nil
	case config.BackendSQLite:
		path, err := c.Config.SQLitePath()
		if err == nil {
			err = os.MkdirAll(filepath.Dir(path), 0755)
		}
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.Instrument(cache.NewNullCache(), artifactKeyType), cache.NewDefaultKeyer(), nil
		}
		sc, err := cache.NewSQLiteCache(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return cache.Instrument(sc, artifactKeyType), cache.NewDefaultKeyer(), nil
	default:
		dir, err := c.Config.CacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.Instrument(cache.NewNullCache(), artifactKeyType), cache.NewDefaultKeyer(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return cache.Instrument(fc, artifactKeyType), cache.NewDefaultKeyer(), nil
	}
}

// =============================================================================
// Output
// =============================================================================

// openOutput returns a writer for path, or stdout for "" and "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
