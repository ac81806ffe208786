package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forecastviz/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the dataset and artifact cache",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// cacheClearCommand removes every cached dataset and artifact, from redis
// when an address is given and from the cache directory otherwise.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisAddr string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached datasets and rendered charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if redisAddr != "" {
				return clearRedis(cmd.Context(), redisAddr)
			}
			return clearFiles(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&redisAddr, "redis", envOr(EnvRedisAddr, ""), "redis address (env "+EnvRedisAddr+")")
	return cmd
}

func clearRedis(ctx context.Context, addr string) error {
	rc, err := cache.NewRedisCache(ctx, addr)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := rc.Clear(ctx); err != nil {
		return fmt.Errorf("clear redis cache at %s: %w", addr, err)
	}
	printSuccess("Cleared redis cache")
	printDetail("Address: %s", addr)
	return nil
}

func clearFiles(ctx context.Context) error {
	dir, err := cache.DefaultDir()
	if err != nil {
		return fmt.Errorf("locate cache dir: %w", err)
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		printInfo("Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	if err := fc.Clear(); err != nil {
		return fmt.Errorf("clear %s: %w", dir, err)
	}
	loggerFromContext(ctx).Debug("cleared file cache", "dir", dir)
	printSuccess("Cleared cache")
	printDetail("Directory: %s", dir)
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("locate cache dir: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
			return err
		},
	}
}
