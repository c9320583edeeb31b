package cmd

import (
	"context"

	"github.com/spf13/cobra"

	mongostore "github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
)

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Creates the MongoDB indexes the API relies on",
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

		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureIndexesCmd)
}
