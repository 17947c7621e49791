package simulate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplysim/internal/config"
	"supplysim/internal/domain"
)

func TestInventoryRunDeterministic(t *testing.T) {
	cfg := config.DefaultGenerator()
	orders, profiles, err := NewDemandModel(cfg).Generate()
	require.NoError(t, err)

	snapsA, completedA, err := NewInventoryLedger(cfg).Run(orders, profiles)
	require.NoError(t, err)
	snapsB, completedB, err := NewInventoryLedger(cfg).Run(orders, profiles)
	require.NoError(t, err)

	require.Equal(t, snapsA, snapsB)
	require.Equal(t, completedA, completedB)
}

func TestInventoryRunShapeAndInvariants(t *testing.T) {
	cfg := config.DefaultGenerator()
	orders, profiles, err := NewDemandModel(cfg).Generate()
	require.NoError(t, err)

	snapshots, completed, err := NewInventoryLedger(cfg).Run(orders, profiles)
	require.NoError(t, err)

	require.Len(t, snapshots, 365*len(cfg.Regions)*cfg.NumSKUs)
	require.Len(t, completed, cfg.NumSKUs)

	for _, p := range completed {
		assert.GreaterOrEqual(t, p.LeadTimeDays, cfg.Inventory.LeadTimeMin)
		assert.LessOrEqual(t, p.LeadTimeDays, cfg.Inventory.LeadTimeMax)
		assert.Positive(t, p.AvgDailyDemand)
		expectedROP := int(p.AvgDailyDemand * float64(p.LeadTimeDays+cfg.Inventory.SafetyStockDays))
		assert.Equal(t, expectedROP, p.ReorderPoint)
	}

	for _, s := range snapshots {
		assert.GreaterOrEqual(t, s.OnHandQty, 0)
		assert.Equal(t, 0, s.ReservedQty)
		assert.False(t, s.LastMovementDate.After(s.SnapshotDate))
		assert.GreaterOrEqual(t, s.UnitCost, cfg.Inventory.UnitCostMin)
		assert.LessOrEqual(t, s.UnitCost, cfg.Inventory.UnitCostMax)
	}
}

// Exercises the transition logic with hand-built parameters: avg demand 10,
// lead 5, safety 7 gives reorder point 120 and an opening balance of 250.
func TestReplayReorderPolicy(t *testing.T) {
	cfg := config.GeneratorConfig{
		StartDate:         time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		Regions:           []string{"North"},
		WarehouseByRegion: map[string]string{"North": "WH_NORTH"},
		NumSKUs:           1,
		Inventory: config.InventoryConfig{
			SafetyStockDays:  7,
			InitialStockDays: 25,
		},
	}
	profile := domain.SKUProfile{
		SKUID:          "SKU_001",
		LeadTimeDays:   5,
		AvgDailyDemand: 10,
		ReorderPoint:   120,
	}
	day := func(d int) time.Time {
		return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
	}
	orders := []domain.Order{
		{OrderID: "ORD_0000001", OrderDate: day(1), SKUID: "SKU_001", Quantity: 40, Region: "North"},
		{OrderID: "ORD_0000002", OrderDate: day(2), SKUID: "SKU_001", Quantity: 95, Region: "North"},
	}
	unitCost := map[string]float64{"SKU_001": 42.5}

	snapshots, err := NewInventoryLedger(cfg).replay(
		[]domain.SKUProfile{profile}, unitCost, orders)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	// Day 1: 250 - 40 = 210, above the reorder point.
	assert.Equal(t, 210, snapshots[0].OnHandQty)
	assert.Equal(t, day(1), snapshots[0].LastMovementDate)

	// Day 2: 210 - 95 = 115 <= 120, so replenish 2*120 for 355.
	assert.Equal(t, 355, snapshots[1].OnHandQty)
	assert.Equal(t, day(2), snapshots[1].LastMovementDate)

	// Day 3: no demand, no movement.
	assert.Equal(t, 355, snapshots[2].OnHandQty)
	assert.Equal(t, day(2), snapshots[2].LastMovementDate)

	for _, s := range snapshots {
		assert.Equal(t, "WH_NORTH", s.WarehouseID)
		assert.InDelta(t, 42.5, s.UnitCost, 1e-9)
	}
}

// Regions within a day draw down one shared pool in region order.
func TestReplaySharedPoolAcrossRegions(t *testing.T) {
	cfg := config.GeneratorConfig{
		StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Regions:   []string{"North", "South"},
		WarehouseByRegion: map[string]string{
			"North": "WH_NORTH",
			"South": "WH_SOUTH",
		},
		NumSKUs: 1,
		Inventory: config.InventoryConfig{
			SafetyStockDays:  7,
			InitialStockDays: 25,
		},
	}
	profile := domain.SKUProfile{
		SKUID:          "SKU_001",
		LeadTimeDays:   5,
		AvgDailyDemand: 10,
		ReorderPoint:   120,
	}
	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{OrderID: "ORD_0000001", OrderDate: day, SKUID: "SKU_001", Quantity: 60, Region: "North"},
		{OrderID: "ORD_0000002", OrderDate: day, SKUID: "SKU_001", Quantity: 60, Region: "South"},
	}

	snapshots, err := NewInventoryLedger(cfg).replay(
		[]domain.SKUProfile{profile}, map[string]float64{"SKU_001": 10}, orders)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	// North sees 250 - 60 = 190; South continues from there: 190 - 60 = 130.
	assert.Equal(t, 190, snapshots[0].OnHandQty)
	assert.Equal(t, 130, snapshots[1].OnHandQty)
}

func TestAverageDailyDemand(t *testing.T) {
	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{OrderID: "ORD_0000001", OrderDate: day, SKUID: "SKU_001", Quantity: 10, Region: "North"},
		{OrderID: "ORD_0000002", OrderDate: day, SKUID: "SKU_001", Quantity: 20, Region: "South"},
		{OrderID: "ORD_0000003", OrderDate: day, SKUID: "SKU_002", Quantity: 7, Region: "North"},
	}

	avg := averageDailyDemand(orders, []string{"SKU_001", "SKU_002", "SKU_003"})
	assert.InDelta(t, 15.0, avg["SKU_001"], 1e-9)
	assert.InDelta(t, 7.0, avg["SKU_002"], 1e-9)
	assert.Zero(t, avg["SKU_003"])
}
