package main

import (
	"fmt"

	"github.com/iammike/cardcheck/internal/bootstrap"
	"github.com/iammike/cardcheck/internal/infrastructure/cache"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the catalog response cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired entries from the sqlite cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(func(svc *bootstrap.Services, logger *zap.Logger) error {
				store, ok := svc.Cache.(*cache.SQLiteCache)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cache is not persistent; nothing to purge.")
					return nil
				}
				removed, err := store.Purge(cmd.Context())
				if err != nil {
					return eris.Wrap(err, "purge cache")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries.\n", removed)
				return nil
			})
		},
	})

	return cacheCmd
}
