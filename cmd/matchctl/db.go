package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	internalapp "skill-match/internal/app"
	"skill-match/internal/config"
	"skill-match/internal/database"
	dbpostgres "skill-match/internal/database/postgres"
	"skill-match/internal/database/seeder"
	"skill-match/internal/domain/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		defer logger.Sync()

		db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := internalapp.Migrate(cmd.Context(), databaseConfig(), db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the catalog file into the roles tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		defer logger.Sync()

		cat, err := catalog.LoadFile(catalogConfig().Path)
		if err != nil {
			return err
		}

		db, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := internalapp.Migrate(cmd.Context(), databaseConfig(), db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		runner := seeder.Runner{Seeders: seeder.Defaults(cat), Logger: logger}
		if err := runner.Run(cmd.Context(), db); err != nil {
			return err
		}
		logger.Info("catalog seeded", zap.Int("roles", cat.Len()), zap.String("version", cat.Version()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func connect(ctx context.Context) (database.DB, error) {
	cfg := databaseConfig()
	if !cfg.Enabled() {
		return nil, errors.New("DB_HOST is not set")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(ctx, cfg, newLogger().Named("pgx"))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// loadCatalog resolves the catalog the same way the server does.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cfg := catalogConfig()
	if cfg.Source != config.CatalogSourcePostgres {
		return internalapp.LoadCatalog(ctx, cfg, nil)
	}

	db, err := connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return internalapp.LoadCatalog(ctx, cfg, db)
}
