package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"supplysim/internal/config"
	"supplysim/internal/simulate"
	"supplysim/internal/storage"
	"supplysim/internal/writer"
	"supplysim/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "generate",
		Usage: "Generate the synthetic supply-chain dataset and export it as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out-dir",
				Usage:   "Directory for the exported CSV files",
				EnvVars: []string{"APP_OUTPUT_DIR"},
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "Random seed (overrides GEN_SEED)",
				EnvVars: []string{"GEN_SEED"},
			},
			&cli.BoolFlag{
				Name:    "upload",
				Usage:   "Upload the exported files to object storage",
				EnvVars: []string{"STORAGE_ENABLED"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"APP_LOG_LEVEL"},
			},
		},
		Action: runGenerate,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("generation failed")
	}
}

func runGenerate(c *cli.Context) error {
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

	outDir := cfg.App.OutputDir
	if dir := c.String("out-dir"); dir != "" {
		outDir = dir
	}

	pipeline := simulate.NewPipeline(gen)
	ds, err := pipeline.Run(c.Context)
	if err != nil {
		return err
	}

	if err := writer.WriteDataset(outDir, ds); err != nil {
		return err
	}

	summary := pipeline.Summarize(ds)
	logger.Log.Info().
		Int("weather_rows", summary.WeatherRows).
		Int("order_rows", summary.OrderRows).
		Int("inventory_rows", summary.InventoryRows).
		Int("shipment_rows", summary.ShipmentRows).
		Float64("storm_rate", summary.StormRate).
		Float64("delay_rate", summary.DelayRate).
		Msg("dataset exported")

	if c.Bool("upload") || cfg.Storage.Enabled {
		if err := uploadDataset(c, cfg, outDir); err != nil {
			return err
		}
	}

	return nil
}

func uploadDataset(c *cli.Context, cfg *config.Config, outDir string) error {
	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}

	prefix := "datasets/" + time.Now().UTC().Format("20060102T150405")
	files := []string{writer.WeatherFile, writer.OrdersFile, writer.InventoryFile, writer.ShipmentsFile}
	for _, name := range files {
		key := path.Join(prefix, name)
		if err := client.UploadFile(c.Context, key, filepath.Join(outDir, name)); err != nil {
			return err
		}
		logger.Log.Info().Str("key", key).Msg("uploaded")
	}
	return nil
}
