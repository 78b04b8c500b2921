package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridnet/internal/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			store, _, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached artifacts are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory, a redis URL
// with key prefix, a sqlite database, or "none".
func (c *CLI) cacheLocation() string {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendRedis:
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		return fmt.Sprintf("redis://%s/%d %s*", addr, cfg.RedisDB, cfg.Prefix)
	case config.BackendSQLite:
		path, err := c.Config.SQLitePath()
		if err != nil {
			return config.BackendNone
		}
		return "sqlite://" + path
	case config.BackendNone:
		return config.BackendNone
	default:
		dir, err := c.Config.CacheDir()
		if err != nil {
			return config.BackendNone
		}
		return dir
	}
}
