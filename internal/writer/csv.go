package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"supplysim/internal/domain"
	"supplysim/pkg/logger"
)

// File names for the four exported tables.
const (
	WeatherFile   = "weather.csv"
	OrdersFile    = "orders.csv"
	InventoryFile = "inventory.csv"
	ShipmentsFile = "shipments.csv"
)

// WriteDataset writes the four tables as CSV files under dir, creating the
// directory if needed. Serialization is an external concern to the
// generators: this package only reads the in-memory tables.
func WriteDataset(dir string, ds *domain.Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	if err := writeCSV(filepath.Join(dir, WeatherFile), weatherHeader, weatherRows(ds.Weather)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, OrdersFile), ordersHeader, orderRows(ds.Orders)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, InventoryFile), inventoryHeader, inventoryRows(ds.Inventory)); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, ShipmentsFile), shipmentsHeader, shipmentRows(ds.Shipments)); err != nil {
		return err
	}

	log := logger.With("writer")
	log.Info().Str("dir", dir).Msg("dataset written")
	return nil
}

var (
	weatherHeader   = []string{"date", "region", "rainfall_mm", "storm_flag", "temperature_c"}
	ordersHeader    = []string{"order_id", "order_date", "sku_id", "quantity", "unit_price", "region"}
	inventoryHeader = []string{"snapshot_date", "sku_id", "warehouse_id", "on_hand_qty", "reserved_qty", "last_movement_date", "unit_cost"}
	shipmentsHeader = []string{"shipment_id", "order_id", "dispatch_date", "expected_delivery_date", "actual_delivery_date", "delivered_qty", "freight_cost", "region"}
)

func weatherRows(weather []domain.RegionDay) [][]string {
	rows := make([][]string, 0, len(weather))
	for _, w := range weather {
		rows = append(rows, []string{
			w.Date.Format(domain.DateLayout),
			w.Region,
			formatFloat(w.RainfallMM, 2),
			strconv.Itoa(w.StormFlag),
			formatFloat(w.TemperatureC, 1),
		})
	}
	return rows
}

func orderRows(orders []domain.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderID,
			o.OrderDate.Format(domain.DateLayout),
			o.SKUID,
			strconv.Itoa(o.Quantity),
			formatFloat(o.UnitPrice, 2),
			o.Region,
		})
	}
	return rows
}

func inventoryRows(snapshots []domain.InventorySnapshot) [][]string {
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.SnapshotDate.Format(domain.DateLayout),
			s.SKUID,
			s.WarehouseID,
			strconv.Itoa(s.OnHandQty),
			strconv.Itoa(s.ReservedQty),
			s.LastMovementDate.Format(domain.DateLayout),
			formatFloat(s.UnitCost, 2),
		})
	}
	return rows
}

func shipmentRows(shipments []domain.Shipment) [][]string {
	rows := make([][]string, 0, len(shipments))
	for _, s := range shipments {
		rows = append(rows, []string{
			s.ShipmentID,
			s.OrderID,
			s.DispatchDate.Format(domain.DateLayout),
			s.ExpectedDeliveryDate.Format(domain.DateLayout),
			s.ActualDeliveryDate.Format(domain.DateLayout),
			strconv.Itoa(s.DeliveredQty),
			formatFloat(s.FreightCost, 2),
			s.Region,
		})
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
