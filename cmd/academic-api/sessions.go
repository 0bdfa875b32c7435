package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/academix/academic-api/internal/config"
	"github.com/academix/academic-api/internal/services"
	"github.com/academix/academic-api/internal/sysutil"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Maintain the chat session log",
	}

	var ahead time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete chat sessions that have expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			svc := &services.SessionService{DB: db}
			n, err := svc.PruneExpired(cmd.Context(), time.Now().UTC().Add(ahead))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired session(s).\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&ahead, "ahead", 0, "also delete sessions expiring within this duration")

	cmd.AddCommand(prune)
	return cmd
}
