package simulate

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"supplysim/internal/config"
	"supplysim/internal/domain"
	"supplysim/pkg/logger"
)

// DemandModel produces the stochastic order stream. It is a pure demand
// signal: no inventory or weather awareness.
type DemandModel struct {
	cfg config.GeneratorConfig
	log zerolog.Logger
}

func NewDemandModel(cfg config.GeneratorConfig) *DemandModel {
	return &DemandModel{cfg: cfg, log: logger.With("demand")}
}

// Generate derives the fixed pricing profile for every SKU, then realizes
// daily demand per (date, region, SKU) as a Poisson draw around the
// seasonally and regionally modulated base rate. Zero realizations are
// omitted, so every emitted order has quantity >= 1 by construction.
//
// The returned profiles carry only the demand-side fields; the inventory
// ledger completes them with lead time, reorder point and average demand.
func (m *DemandModel) Generate() ([]domain.Order, []domain.SKUProfile, error) {
	rng := newStageRNG(m.cfg.Seed)
	dcfg := m.cfg.Demand
	skuIDs := m.cfg.SKUIDs()

	// Fixed per-SKU profile, drawn once. Draw order (all base demands,
	// then all costs, then all margins) is part of the determinism contract.
	profiles := make([]domain.SKUProfile, len(skuIDs))
	for i, sku := range skuIDs {
		profiles[i] = domain.SKUProfile{
			SKUID:      sku,
			BaseDemand: intBetween(rng, dcfg.BaseDemandMin, dcfg.BaseDemandMax),
		}
	}
	for i := range profiles {
		profiles[i].UnitCost = uniform(rng, dcfg.BaseCostMin, dcfg.BaseCostMax)
	}
	for i := range profiles {
		profiles[i].Margin = uniform(rng, dcfg.MarginMin, dcfg.MarginMax)
		profiles[i].UnitPrice = round2(profiles[i].UnitCost * (1 + profiles[i].Margin))
	}
	priceBySKU := make(map[string]float64, len(profiles))
	baseBySKU := make(map[string]int, len(profiles))
	for _, p := range profiles {
		priceBySKU[p.SKUID] = p.UnitPrice
		baseBySKU[p.SKUID] = p.BaseDemand
	}

	var orders []domain.Order
	orderID := 1

	for _, date := range m.cfg.Dates() {
		seasonal := dcfg.SeasonalMultipliers[date.Month()]
		weekend := 1.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = dcfg.WeekendMultiplier
		}

		for _, region := range m.cfg.Regions {
			// Regional demand bias varies daily but is shared across SKUs.
			regionMult := uniform(rng, dcfg.RegionMultiplierMin, dcfg.RegionMultiplierMax)

			for _, sku := range skuIDs {
				expected := float64(baseBySKU[sku]) * seasonal * weekend * regionMult
				qty := poisson(rng, max(expected, dcfg.MinPoissonRate))
				if qty <= 0 {
					continue
				}

				orders = append(orders, domain.Order{
					OrderID:   fmt.Sprintf("ORD_%07d", orderID),
					OrderDate: date,
					SKUID:     sku,
					Quantity:  qty,
					UnitPrice: priceBySKU[sku],
					Region:    region,
				})
				orderID++
			}
		}
	}

	if err := validateOrders(orders, m.cfg); err != nil {
		return nil, nil, err
	}

	m.log.Info().Int("rows", len(orders)).Int("skus", len(skuIDs)).Msg("order stream generated")
	return orders, profiles, nil
}
