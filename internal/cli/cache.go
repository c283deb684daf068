package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tableheatmap/pkg/cache"
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
		Use:   "clear",
		Short: "Remove every cached table and artifact",
		Long: `Clear empties the file cache. Redis and MongoDB entries expire on their
own and are not touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache backend %q has nothing to clear", c.config().Cache.Backend)
				return nil
			}
			defer fc.Close()

			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := c.config().cacheURL()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, url)
			return nil
		},
	}
}

// fileCache opens the configured cache when it is a file cache, and
// returns nil for every other backend.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	switch strings.ToLower(c.config().Cache.Backend) {
	case "", backendFile:
	default:
		return nil, nil
	}
	dir, err := c.config().cacheURL()
	if err != nil || dir == "none" {
		return nil, err
	}
	return cache.NewFileCache(dir)
}
