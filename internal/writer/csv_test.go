package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplysim/internal/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteDataset(t *testing.T) {
	day := time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC)
	ds := &domain.Dataset{
		Weather: []domain.RegionDay{
			{Date: day, Region: "North", RainfallMM: 4.5, StormFlag: 0, TemperatureC: 18.6},
		},
		Orders: []domain.Order{
			{OrderID: "ORD_0000001", OrderDate: day, SKUID: "SKU_001", Quantity: 12, UnitPrice: 47.25, Region: "North"},
		},
		Inventory: []domain.InventorySnapshot{
			{SnapshotDate: day, SKUID: "SKU_001", WarehouseID: "WH_NORTH", OnHandQty: 210, ReservedQty: 0, LastMovementDate: day, UnitCost: 33.4},
		},
		Shipments: []domain.Shipment{
			{
				ShipmentID:           "SHP_ORD_0000001",
				OrderID:              "ORD_0000001",
				DispatchDate:         day.AddDate(0, 0, 1),
				ExpectedDeliveryDate: day.AddDate(0, 0, 4),
				ActualDeliveryDate:   day.AddDate(0, 0, 4),
				DeliveredQty:         12,
				FreightCost:          74,
				Region:               "North",
			},
		},
	}

	dir := t.TempDir()
	require.NoError(t, WriteDataset(dir, ds))

	weather := readCSV(t, filepath.Join(dir, WeatherFile))
	require.Len(t, weather, 2)
	assert.Equal(t, []string{"date", "region", "rainfall_mm", "storm_flag", "temperature_c"}, weather[0])
	assert.Equal(t, []string{"2023-02-03", "North", "4.50", "0", "18.6"}, weather[1])

	orders := readCSV(t, filepath.Join(dir, OrdersFile))
	require.Len(t, orders, 2)
	assert.Equal(t, []string{"order_id", "order_date", "sku_id", "quantity", "unit_price", "region"}, orders[0])
	assert.Equal(t, []string{"ORD_0000001", "2023-02-03", "SKU_001", "12", "47.25", "North"}, orders[1])

	inventory := readCSV(t, filepath.Join(dir, InventoryFile))
	require.Len(t, inventory, 2)
	assert.Equal(t, []string{"snapshot_date", "sku_id", "warehouse_id", "on_hand_qty", "reserved_qty", "last_movement_date", "unit_cost"}, inventory[0])
	assert.Equal(t, []string{"2023-02-03", "SKU_001", "WH_NORTH", "210", "0", "2023-02-03", "33.40"}, inventory[1])

	shipments := readCSV(t, filepath.Join(dir, ShipmentsFile))
	require.Len(t, shipments, 2)
	assert.Equal(t, []string{"shipment_id", "order_id", "dispatch_date", "expected_delivery_date", "actual_delivery_date", "delivered_qty", "freight_cost", "region"}, shipments[0])
	assert.Equal(t, []string{"SHP_ORD_0000001", "ORD_0000001", "2023-02-04", "2023-02-07", "2023-02-07", "12", "74.00", "North"}, shipments[1])
}

func TestWriteDatasetCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, WriteDataset(dir, &domain.Dataset{}))

	for _, name := range []string{WeatherFile, OrdersFile, InventoryFile, ShipmentsFile} {
		rows := readCSV(t, filepath.Join(dir, name))
		require.Len(t, rows, 1, "%s should contain only the header", name)
	}
}
