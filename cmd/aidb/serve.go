package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/logging"
	"github.com/Prayag-01/ai-project/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics reports of an existing database as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := a.sugar()
			store, err := db.OpenStore(a.cfg.DBPath, log, logging.SQLLogMode(a.cfg.LogLevel))
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Warnw("failed to close database", "error", err)
				}
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(store, log, a.cfg.TopLimit).Run(ctx, a.cfg.Addr)
		},
	}
}
