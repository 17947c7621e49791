package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"supplysim/internal/config"
	"supplysim/internal/repository/postgres"
	"supplysim/internal/simulate"
	"supplysim/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "Generate the dataset and bulk-load it into Postgres",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "Random seed (overrides GEN_SEED)",
				EnvVars: []string{"GEN_SEED"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"APP_LOG_LEVEL"},
			},
		},
		Action: runSeed,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seeding failed")
	}
}

func runSeed(c *cli.Context) error {
	cfg := config.Load()

	if lvl := c.String("log-level"); lvl != "" {
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(cfg.App.LogLevel)
	}

	gen := cfg.Generator
	if c.IsSet("seed") {
		gen.Seed = c.Int64("seed")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewDatasetRepository(db)
	if err := repo.EnsureSchema(c.Context); err != nil {
		return err
	}

	ds, err := simulate.NewPipeline(gen).Run(c.Context)
	if err != nil {
		return err
	}

	if err := repo.InsertDataset(c.Context, ds); err != nil {
		return err
	}

	logger.Log.Info().
		Int("orders", len(ds.Orders)).
		Int("shipments", len(ds.Shipments)).
		Msg("database seeding completed")
	return nil
}
