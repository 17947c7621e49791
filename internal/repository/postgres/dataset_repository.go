package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"supplysim/internal/domain"
)

// DatasetRepository bulk-loads a generated dataset into the analytics
// warehouse. Loads are all-or-nothing: the four tables go in one
// transaction so a failed run never leaves a partial corpus behind.
type DatasetRepository struct {
	db *DB
}

func NewDatasetRepository(db *DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

const insertChunkSize = 500

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS weather_daily (
		date DATE NOT NULL,
		region TEXT NOT NULL,
		rainfall_mm DOUBLE PRECISION NOT NULL,
		storm_flag SMALLINT NOT NULL,
		temperature_c DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (date, region)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		order_date DATE NOT NULL,
		sku_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price DOUBLE PRECISION NOT NULL,
		region TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_snapshots (
		snapshot_date DATE NOT NULL,
		sku_id TEXT NOT NULL,
		warehouse_id TEXT NOT NULL,
		on_hand_qty INTEGER NOT NULL,
		reserved_qty INTEGER NOT NULL,
		last_movement_date DATE NOT NULL,
		unit_cost DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (snapshot_date, warehouse_id, sku_id)
	)`,
	`CREATE TABLE IF NOT EXISTS shipments (
		shipment_id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(order_id),
		dispatch_date DATE NOT NULL,
		expected_delivery_date DATE NOT NULL,
		actual_delivery_date DATE NOT NULL,
		delivered_qty INTEGER NOT NULL,
		freight_cost DOUBLE PRECISION NOT NULL,
		region TEXT NOT NULL
	)`,
}

// EnsureSchema creates the four tables if they do not exist yet.
func (r *DatasetRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// InsertDataset truncates any previous load and inserts all four tables.
func (r *DatasetRepository) InsertDataset(ctx context.Context, ds *domain.Dataset) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`TRUNCATE shipments, inventory_snapshots, orders, weather_daily`); err != nil {
			return fmt.Errorf("truncate tables: %w", err)
		}

		if err := insertWeather(ctx, tx, ds.Weather); err != nil {
			return err
		}
		if err := insertOrders(ctx, tx, ds.Orders); err != nil {
			return err
		}
		if err := insertInventory(ctx, tx, ds.Inventory); err != nil {
			return err
		}
		if err := insertShipments(ctx, tx, ds.Shipments); err != nil {
			return err
		}
		return nil
	})
}

type weatherRow struct {
	Date         time.Time `db:"date"`
	Region       string    `db:"region"`
	RainfallMM   float64   `db:"rainfall_mm"`
	StormFlag    int       `db:"storm_flag"`
	TemperatureC float64   `db:"temperature_c"`
}

func insertWeather(ctx context.Context, tx *sqlx.Tx, weather []domain.RegionDay) error {
	rows := make([]weatherRow, len(weather))
	for i, w := range weather {
		rows[i] = weatherRow{w.Date, w.Region, w.RainfallMM, w.StormFlag, w.TemperatureC}
	}
	return insertChunked(ctx, tx, "weather_daily", rows,
		`INSERT INTO weather_daily (date, region, rainfall_mm, storm_flag, temperature_c)
		 VALUES (:date, :region, :rainfall_mm, :storm_flag, :temperature_c)`)
}

type orderRow struct {
	OrderID   string    `db:"order_id"`
	OrderDate time.Time `db:"order_date"`
	SKUID     string    `db:"sku_id"`
	Quantity  int       `db:"quantity"`
	UnitPrice float64   `db:"unit_price"`
	Region    string    `db:"region"`
}

func insertOrders(ctx context.Context, tx *sqlx.Tx, orders []domain.Order) error {
	rows := make([]orderRow, len(orders))
	for i, o := range orders {
		rows[i] = orderRow{o.OrderID, o.OrderDate, o.SKUID, o.Quantity, o.UnitPrice, o.Region}
	}
	return insertChunked(ctx, tx, "orders", rows,
		`INSERT INTO orders (order_id, order_date, sku_id, quantity, unit_price, region)
		 VALUES (:order_id, :order_date, :sku_id, :quantity, :unit_price, :region)`)
}

type inventoryRow struct {
	SnapshotDate     time.Time `db:"snapshot_date"`
	SKUID            string    `db:"sku_id"`
	WarehouseID      string    `db:"warehouse_id"`
	OnHandQty        int       `db:"on_hand_qty"`
	ReservedQty      int       `db:"reserved_qty"`
	LastMovementDate time.Time `db:"last_movement_date"`
	UnitCost         float64   `db:"unit_cost"`
}

func insertInventory(ctx context.Context, tx *sqlx.Tx, snapshots []domain.InventorySnapshot) error {
	rows := make([]inventoryRow, len(snapshots))
	for i, s := range snapshots {
		rows[i] = inventoryRow{s.SnapshotDate, s.SKUID, s.WarehouseID, s.OnHandQty, s.ReservedQty, s.LastMovementDate, s.UnitCost}
	}
	return insertChunked(ctx, tx, "inventory_snapshots", rows,
		`INSERT INTO inventory_snapshots (snapshot_date, sku_id, warehouse_id, on_hand_qty, reserved_qty, last_movement_date, unit_cost)
		 VALUES (:snapshot_date, :sku_id, :warehouse_id, :on_hand_qty, :reserved_qty, :last_movement_date, :unit_cost)`)
}

type shipmentRow struct {
	ShipmentID           string    `db:"shipment_id"`
	OrderID              string    `db:"order_id"`
	DispatchDate         time.Time `db:"dispatch_date"`
	ExpectedDeliveryDate time.Time `db:"expected_delivery_date"`
	ActualDeliveryDate   time.Time `db:"actual_delivery_date"`
	DeliveredQty         int       `db:"delivered_qty"`
	FreightCost          float64   `db:"freight_cost"`
	Region               string    `db:"region"`
}

func insertShipments(ctx context.Context, tx *sqlx.Tx, shipments []domain.Shipment) error {
	rows := make([]shipmentRow, len(shipments))
	for i, s := range shipments {
		rows[i] = shipmentRow{s.ShipmentID, s.OrderID, s.DispatchDate, s.ExpectedDeliveryDate, s.ActualDeliveryDate, s.DeliveredQty, s.FreightCost, s.Region}
	}
	return insertChunked(ctx, tx, "shipments", rows,
		`INSERT INTO shipments (shipment_id, order_id, dispatch_date, expected_delivery_date, actual_delivery_date, delivered_qty, freight_cost, region)
		 VALUES (:shipment_id, :order_id, :dispatch_date, :expected_delivery_date, :actual_delivery_date, :delivered_qty, :freight_cost, :region)`)
}

func insertChunked[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T, query string) error {
	for start := 0; start < len(rows); start += insertChunkSize {
		end := min(start+insertChunkSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	log.Info().Str("table", table).Int("rows", len(rows)).Msg("table loaded")
	return nil
}
