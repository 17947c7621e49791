package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"supplysim/internal/config"
	"supplysim/internal/domain"
	"supplysim/pkg/logger"
)

// Pipeline sequences the four generative models. Weather and demand are
// independent and run concurrently, each on its own seeded generator; the
// ledger then consumes the order stream, and the shipment model consumes
// orders plus weather. There is no feedback between stages.
type Pipeline struct {
	cfg config.GeneratorConfig
	log zerolog.Logger
}

func NewPipeline(cfg config.GeneratorConfig) *Pipeline {
	return &Pipeline{cfg: cfg, log: logger.With("pipeline")}
}

// Run executes the full generation pass and returns the assembled dataset.
// A validation failure in any stage aborts before downstream stages run.
func (p *Pipeline) Run(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()
	ds := &domain.Dataset{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		weather, err := NewWeatherModel(p.cfg).Generate()
		if err != nil {
			return fmt.Errorf("weather stage: %w", err)
		}
		ds.Weather = weather
		return nil
	})
	g.Go(func() error {
		orders, profiles, err := NewDemandModel(p.cfg).Generate()
		if err != nil {
			return fmt.Errorf("demand stage: %w", err)
		}
		ds.Orders = orders
		ds.Profiles = profiles
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshots, completed, err := NewInventoryLedger(p.cfg).Run(ds.Orders, ds.Profiles)
	if err != nil {
		return nil, fmt.Errorf("inventory stage: %w", err)
	}
	ds.Inventory = snapshots
	ds.Profiles = completed

	shipments, err := NewShipmentModel(p.cfg).Run(ds.Orders, ds.Weather)
	if err != nil {
		return nil, fmt.Errorf("shipment stage: %w", err)
	}
	ds.Shipments = shipments

	p.log.Info().
		Int("weather_rows", len(ds.Weather)).
		Int("order_rows", len(ds.Orders)).
		Int("inventory_rows", len(ds.Inventory)).
		Int("shipment_rows", len(ds.Shipments)).
		Dur("elapsed", time.Since(start)).
		Msg("generation pass complete")

	return ds, nil
}

// Summarize computes the cross-table statistics for a generated dataset.
func (p *Pipeline) Summarize(ds *domain.Dataset) domain.Summary {
	totalQty := 0
	for _, o := range ds.Orders {
		totalQty += o.Quantity
	}

	return domain.Summary{
		Seed:            p.cfg.Seed,
		StartDate:       p.cfg.StartDate.Format(domain.DateLayout),
		EndDate:         p.cfg.EndDate.Format(domain.DateLayout),
		WeatherRows:     len(ds.Weather),
		OrderRows:       len(ds.Orders),
		InventoryRows:   len(ds.Inventory),
		ShipmentRows:    len(ds.Shipments),
		StormRate:       StormRate(ds.Weather),
		TotalOrderedQty: totalQty,
		DelayRate:       DelayRate(ds.Shipments),
		InFullRate:      InFullRate(ds.Shipments, ds.Orders),
		TotalFreight:    TotalFreight(ds.Shipments),
	}
}
