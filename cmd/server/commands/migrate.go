package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-midea/social/internal/repositories"
	"github.com/anonto42/nano-midea/social/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Run gorm AutoMigrate for every model and, when STORY_STORE=mongo,
create the story collection indexes (including the expiry TTL index).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		db, err := config.InitDB(cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()
		return migrate(cmd.Context(), cfg, db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(ctx context.Context, cfg *config.Config, db *config.DB) error {
	if err := repositories.AutoMigrate(db.SQL); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("SQL auto-migrations completed for all models.")

	if cfg.StoryStore != config.StoryStoreMongo {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	stories := repositories.NewMongoStoryRepository(db.Mongo.Database(cfg.MongoDatabase))
	if err := stories.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("story indexes: %w", err)
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("MongoDB story indexes ensured.")
	return nil
}
