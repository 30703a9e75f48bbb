package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// cacheCommand groups management of the on-disk artifact cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It reports how
// many artifacts were removed and how much disk they held.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			count, size, err := clearCacheDir(dir)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}

			printSuccess("Removed %d artifacts (%s)", count, formatBytes(size))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand. The directory is
// printed unstyled so the output stays script-friendly; the usage
// summary goes to the detail line.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory and its usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)

			count, size, err := cacheUsage(dir)
			if err != nil || count == 0 {
				printDetail("empty")
				return nil
			}
			printDetail("%d artifacts, %s", count, formatBytes(size))
			return nil
		},
	}
}

// cacheUsage counts cached artifacts and their combined size. A missing
// or unreadable directory counts as an empty cache.
func cacheUsage(dir string) (count int, size int64, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil || d.IsDir() {
			return nil
		}
		if info, ierr := d.Info(); ierr == nil {
			count++
			size += info.Size()
		}
		return nil
	})
	return count, size, err
}

// clearCacheDir empties the cache, removing the hash-shard
// subdirectories along with their entries but keeping the root in
// place. Returns what was removed.
func clearCacheDir(dir string) (int, int64, error) {
	count, size, err := cacheUsage(dir)
	if err != nil {
		return 0, 0, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return 0, 0, err
		}
	}
	return count, size, nil
}

// formatBytes renders a byte count in a compact human-readable unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
