package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [job.toml]",
		Short: "Clear cached artifacts",
		Long: `Clear cached artifacts.

Without a job file the default file cache is cleared. With one, the cache
the job selects is cleared, which may be a Redis cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, where, err := c.openCache(args)
			if err != nil {
				return err
			}
			defer ch.Close()
			return c.runCacheClear(cmd.Context(), ch, where)
		},
		ValidArgsFunction: completeJobFile,
	}
}

func (c *CLI) runCacheClear(ctx context.Context, ch cache.Cache, where string) error {
	n, err := ch.Clear(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo(c.stdout(), "Cache is empty")
		return nil
	}
	printSuccess(c.stdout(), "Cleared %d cached entries", n)
	if where != "" {
		printDetail(c.stdout(), "Location: %s", where)
	}
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			_, err = fmt.Fprintln(c.stdout(), dir)
			return err
		},
	}
}

// openCache opens the cache of the job in args, or the default file cache.
// It also returns a description of where the cache lives.
func (c *CLI) openCache(args []string) (cache.Cache, string, error) {
	if len(args) == 0 {
		dir, err := cache.DefaultDir()
		if err != nil {
			return nil, "", fmt.Errorf("get cache dir: %w", err)
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, "", err
		}
		return fc, dir, nil
	}

	cfg, err := c.loadJob(args[0])
	if err != nil {
		return nil, "", err
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, "", err
	}
	ch, err := pipeline.OpenCache(cfg)
	if err != nil {
		return nil, "", err
	}
	where := cfg.Cache.RedisURL
	if fc, ok := ch.(*cache.FileCache); ok {
		where = fc.Dir()
	} else if cfg.Cache.Kind == config.CacheNone {
		where = ""
	}
	return ch, where, nil
}
