package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"booksort/internal/namecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the folder name cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func withCache(ctx *commandContext, fn func(context.Context, *namecache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := namecache.Open(cfg.NameCache.Path)
	if err != nil {
		return fmt.Errorf("open name cache: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()
	return fn(context.Background(), store)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached folder name decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(cmdCtx context.Context, store *namecache.Store) error {
				entries, err := store.Entries(cmdCtx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Name cache is empty.")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					cached := ""
					if !entry.CreatedAt.IsZero() {
						cached = entry.CreatedAt.Local().Format(time.RFC3339)
					}
					rows = append(rows, []string{entry.Key, entry.FolderName, entry.Source, cached})
				}
				fmt.Fprintln(out, renderTable([]string{"Key", "Folder", "Source", "Cached"}, rows))
				return nil
			})
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove one cached entry by its raw key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(cmdCtx context.Context, store *namecache.Store) error {
				removed, err := store.Delete(cmdCtx, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !removed {
					fmt.Fprintf(out, "No cache entry for %q\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "Removed cache entry for %q\n", args[0])
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the cache without --yes")
			}
			return withCache(ctx, func(cmdCtx context.Context, store *namecache.Store) error {
				removed, err := store.Clear(cmdCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm clearing the cache")
	return cmd
}
