package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/storefront/commerce-api/internal/core/service"
	mongostore "github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	"github.com/storefront/commerce-api/internal/infrastructure/security"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Creates the bootstrap admin from ADMIN_EMAIL and ADMIN_PASSWORD",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, log, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		created, err := service.EnsureAdmin(ctx, mongostore.NewAdminRepository(db), security.NewBcryptHasher(cfg.Auth.BcryptCost), service.SeedAdminInput{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		}, log)
		if err != nil {
			return err
		}
		if !created {
			log.Info().Msg("admin already present, nothing to do")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
}
