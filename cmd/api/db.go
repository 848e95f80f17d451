package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/baharkarakas/rentacar-backend/internal/auth"
	"github.com/baharkarakas/rentacar-backend/internal/services"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations (postgres) or create indexes (mongo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := boot(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		slog.Info("migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the bootstrap admin from ADMIN_EMAIL / ADMIN_PASSWORD",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := boot(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())
		if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
			return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		}

		staff := services.NewStaffService(store, auth.NewRedisSessions(nil))
		made, err := staff.SeedAdmin(cmd.Context(), cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		slog.Info("seed finished", "admin", cfg.AdminEmail, "created", made)
		return nil
	},
}
