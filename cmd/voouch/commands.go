package main

import (
	"context"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/migration"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability"
	"github.com/Achorval/Voouch-Api-sub001/internal/server"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				core(),
				migration.Module,
				server.Module,
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	var withSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), withSeed)
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "also insert default tier limits and categories")

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations and insert default tier limits and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), true)
		},
	}
}

// runOnce builds the migration graph, which does its work while the
// container is constructed, then shuts the app down again.
func runOnce(ctx context.Context, withSeed bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	app := fx.New(
		core(),
		fx.Decorate(func(cfg config.Config) config.Config {
			cfg.SeedDefaults = withSeed
			return cfg
		}),
		migration.Module,
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}
	return app.Stop(startCtx)
}

func core() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
	)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
