package domain

import "time"

// DateLayout is the canonical date format used across all tables.
const DateLayout = "2006-01-02"

// RegionDay is one day of weather for one region. Immutable once generated.
type RegionDay struct {
	Date         time.Time `json:"date"`
	Region       string    `json:"region"`
	RainfallMM   float64   `json:"rainfall_mm"`
	StormFlag    int       `json:"storm_flag"`
	TemperatureC float64   `json:"temperature_c"`
}

// Order is a single fulfilled demand event. Generated once; immutable.
type Order struct {
	OrderID   string    `json:"order_id"`
	OrderDate time.Time `json:"order_date"`
	SKUID     string    `json:"sku_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Region    string    `json:"region"`
}

// SKUProfile is the fixed per-SKU parameter set every model reads.
// Pricing fields are derived by the demand model; logistics fields
// (lead time, reorder point, average demand) by the inventory ledger.
// Never mutated after derivation.
type SKUProfile struct {
	SKUID          string  `json:"sku_id"`
	BaseDemand     int     `json:"base_demand"`
	UnitCost       float64 `json:"unit_cost"`
	Margin         float64 `json:"margin"`
	UnitPrice      float64 `json:"unit_price"`
	LeadTimeDays   int     `json:"lead_time_days"`
	ReorderPoint   int     `json:"reorder_point"`
	AvgDailyDemand float64 `json:"avg_daily_demand"`
}

// InventorySnapshot is the end-of-step stock position for one
// (date, warehouse, SKU) cell of the daily ledger.
type InventorySnapshot struct {
	SnapshotDate     time.Time `json:"snapshot_date"`
	SKUID            string    `json:"sku_id"`
	WarehouseID      string    `json:"warehouse_id"`
	OnHandQty        int       `json:"on_hand_qty"`
	ReservedQty      int       `json:"reserved_qty"`
	LastMovementDate time.Time `json:"last_movement_date"`
	UnitCost         float64   `json:"unit_cost"`
}

// Shipment is the logistics outcome for exactly one order.
type Shipment struct {
	ShipmentID           string    `json:"shipment_id"`
	OrderID              string    `json:"order_id"`
	DispatchDate         time.Time `json:"dispatch_date"`
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`
	ActualDeliveryDate   time.Time `json:"actual_delivery_date"`
	DeliveredQty         int       `json:"delivered_qty"`
	FreightCost          float64   `json:"freight_cost"`
	Region               string    `json:"region"`
}

// Dataset holds the four generated tables plus the SKU parameter catalog.
// All slices are append-only once a generation run completes.
type Dataset struct {
	Weather   []RegionDay         `json:"weather"`
	Orders    []Order             `json:"orders"`
	Profiles  []SKUProfile        `json:"profiles"`
	Inventory []InventorySnapshot `json:"inventory"`
	Shipments []Shipment          `json:"shipments"`
}

// Summary aggregates cross-table statistics for one generation run.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Seed        int64     `json:"seed"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`

	WeatherRows   int `json:"weather_rows"`
	OrderRows     int `json:"order_rows"`
	InventoryRows int `json:"inventory_rows"`
	ShipmentRows  int `json:"shipment_rows"`

	StormRate       float64 `json:"storm_rate"`
	TotalOrderedQty int     `json:"total_ordered_qty"`
	DelayRate       float64 `json:"delay_rate"`
	InFullRate      float64 `json:"in_full_rate"`
	TotalFreight    float64 `json:"total_freight_cost"`
}
