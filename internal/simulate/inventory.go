package simulate

import (
	"github.com/rs/zerolog"

	"supplysim/internal/config"
	"supplysim/internal/domain"
	"supplysim/pkg/logger"
)

// InventoryLedger replays the order stream day by day per SKU, enforcing a
// reorder-point replenishment policy and the non-negativity invariant. It is
// the only stateful stage: correctness depends on the strict
// date-then-region-then-SKU iteration order over the shared running balance.
type InventoryLedger struct {
	cfg config.GeneratorConfig
	log zerolog.Logger
}

func NewInventoryLedger(cfg config.GeneratorConfig) *InventoryLedger {
	return &InventoryLedger{cfg: cfg, log: logger.With("inventory")}
}

// Run derives the logistics half of every SKU profile (unit cost, lead time,
// average daily demand, reorder point), then replays the order stream into
// daily snapshots. The completed profiles are returned alongside the ledger
// rows; they are fixed for the whole horizon.
func (l *InventoryLedger) Run(orders []domain.Order, profiles []domain.SKUProfile) ([]domain.InventorySnapshot, []domain.SKUProfile, error) {
	rng := newStageRNG(l.cfg.Seed)
	icfg := l.cfg.Inventory

	// Draw order: snapshot unit costs for every SKU, then lead times.
	unitCost := make(map[string]float64, len(profiles))
	for _, p := range profiles {
		unitCost[p.SKUID] = round2(uniform(rng, icfg.UnitCostMin, icfg.UnitCostMax))
	}

	avg := averageDailyDemand(orders, l.cfg.SKUIDs())

	completed := make([]domain.SKUProfile, len(profiles))
	for i, p := range profiles {
		p.LeadTimeDays = intBetween(rng, icfg.LeadTimeMin, icfg.LeadTimeMax)
		p.AvgDailyDemand = avg[p.SKUID]
		p.ReorderPoint = int(p.AvgDailyDemand * float64(p.LeadTimeDays+icfg.SafetyStockDays))
		completed[i] = p
	}

	snapshots, err := l.replay(completed, unitCost, orders)
	if err != nil {
		return nil, nil, err
	}

	l.log.Info().Int("rows", len(snapshots)).Msg("inventory ledger generated")
	return snapshots, completed, nil
}

// replay runs the sequential state machine over already-derived profiles.
// Split out from Run so the transition logic is testable with hand-built
// parameters, independent of the stage's random draws.
//
// State is keyed by SKU only: regions within a day deplete and replenish one
// shared stock pool in the configured region order. Each region still gets
// its own snapshot row against its warehouse. The running state is owned
// here and discarded after the replay; only the snapshots survive.
func (l *InventoryLedger) replay(profiles []domain.SKUProfile, unitCost map[string]float64, orders []domain.Order) ([]domain.InventorySnapshot, error) {
	icfg := l.cfg.Inventory
	idx := domain.NewOrderIndex(orders)
	dates := l.cfg.Dates()

	onHand := make(map[string]int, len(profiles))
	lastMovement := make(map[string]int, len(profiles)) // index into dates
	for _, p := range profiles {
		onHand[p.SKUID] = int(p.AvgDailyDemand * float64(icfg.InitialStockDays))
		lastMovement[p.SKUID] = 0
	}

	snapshots := make([]domain.InventorySnapshot, 0, len(dates)*len(l.cfg.Regions)*len(profiles))

	for di, date := range dates {
		for _, region := range l.cfg.Regions {
			warehouse := l.cfg.WarehouseByRegion[region]

			for _, p := range profiles {
				ordered := idx.QuantityOn(date, region, p.SKUID)

				// Sales never drive stock negative; unmet demand is
				// simply unfulfilled, not carried as backorder.
				sales := min(onHand[p.SKUID], ordered)
				onHand[p.SKUID] -= sales

				replenished := 0
				if onHand[p.SKUID] <= p.ReorderPoint {
					// Instantaneous, lead-time-free refill.
					replenished = 2 * p.ReorderPoint
					onHand[p.SKUID] += replenished
				}

				if sales > 0 || replenished > 0 {
					lastMovement[p.SKUID] = di
				}

				snapshots = append(snapshots, domain.InventorySnapshot{
					SnapshotDate:     date,
					SKUID:            p.SKUID,
					WarehouseID:      warehouse,
					OnHandQty:        onHand[p.SKUID],
					ReservedQty:      0,
					LastMovementDate: dates[lastMovement[p.SKUID]],
					UnitCost:         unitCost[p.SKUID],
				})
			}
		}
	}

	if err := validateInventory(snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// averageDailyDemand is the global demand statistic the ledger is
// parameterized by: the mean quantity across a SKU's order rows over the
// whole horizon, not a running estimate. SKUs with no orders average zero.
func averageDailyDemand(orders []domain.Order, skuIDs []string) map[string]float64 {
	sum := make(map[string]int, len(skuIDs))
	count := make(map[string]int, len(skuIDs))
	for _, o := range orders {
		sum[o.SKUID] += o.Quantity
		count[o.SKUID]++
	}

	avg := make(map[string]float64, len(skuIDs))
	for _, sku := range skuIDs {
		if count[sku] == 0 {
			avg[sku] = 0
			continue
		}
		avg[sku] = float64(sum[sku]) / float64(count[sku])
	}
	return avg
}
