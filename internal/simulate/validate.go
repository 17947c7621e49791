package simulate

import (
	"fmt"

	"supplysim/internal/config"
	"supplysim/internal/domain"
)

// Each stage validates its complete output before the next stage runs;
// a failure here aborts the whole pipeline since downstream stages would
// operate on provably inconsistent input.

func validateWeather(weather []domain.RegionDay, cfg config.GeneratorConfig) error {
	regions := regionSet(cfg)
	for i, w := range weather {
		if w.Date.IsZero() || w.Region == "" {
			return fmt.Errorf("weather row %d: %w", i, domain.ErrMissingField)
		}
		if !regions[w.Region] {
			return fmt.Errorf("weather row %d: region %q: %w", i, w.Region, domain.ErrUnknownRegion)
		}
		if w.RainfallMM < 0 {
			return fmt.Errorf("weather row %d (%s/%s): %w", i, w.Region, w.Date.Format(domain.DateLayout), domain.ErrNegativeRainfall)
		}
		if w.StormFlag != 0 && w.StormFlag != 1 {
			return fmt.Errorf("weather row %d: flag %d: %w", i, w.StormFlag, domain.ErrInvalidStormFlag)
		}
	}
	return nil
}

func validateOrders(orders []domain.Order, cfg config.GeneratorConfig) error {
	regions := regionSet(cfg)
	skus := make(map[string]bool, cfg.NumSKUs)
	for _, sku := range cfg.SKUIDs() {
		skus[sku] = true
	}

	seen := make(map[string]bool, len(orders))
	for i, o := range orders {
		if o.OrderID == "" || o.OrderDate.IsZero() || o.SKUID == "" || o.Region == "" {
			return fmt.Errorf("order row %d: %w", i, domain.ErrMissingField)
		}
		if seen[o.OrderID] {
			return fmt.Errorf("order row %d: duplicate order id %s", i, o.OrderID)
		}
		seen[o.OrderID] = true
		if o.Quantity < 1 {
			return fmt.Errorf("order %s: qty %d: %w", o.OrderID, o.Quantity, domain.ErrZeroQuantity)
		}
		if !skus[o.SKUID] {
			return fmt.Errorf("order %s: sku %q: %w", o.OrderID, o.SKUID, domain.ErrUnknownSKU)
		}
		if !regions[o.Region] {
			return fmt.Errorf("order %s: region %q: %w", o.OrderID, o.Region, domain.ErrUnknownRegion)
		}
	}
	return nil
}

func validateInventory(snapshots []domain.InventorySnapshot) error {
	for i, s := range snapshots {
		if s.SnapshotDate.IsZero() || s.SKUID == "" || s.WarehouseID == "" || s.LastMovementDate.IsZero() {
			return fmt.Errorf("inventory row %d: %w", i, domain.ErrMissingField)
		}
		if s.OnHandQty < 0 {
			return fmt.Errorf("inventory %s/%s on %s: on_hand %d: %w",
				s.WarehouseID, s.SKUID, s.SnapshotDate.Format(domain.DateLayout), s.OnHandQty, domain.ErrNegativeStock)
		}
		if s.ReservedQty > s.OnHandQty {
			return fmt.Errorf("inventory %s/%s on %s: reserved %d > on_hand %d: %w",
				s.WarehouseID, s.SKUID, s.SnapshotDate.Format(domain.DateLayout), s.ReservedQty, s.OnHandQty, domain.ErrReservedExceedsOnHand)
		}
	}
	return nil
}

func validateShipments(shipments []domain.Shipment, orders []domain.Order) error {
	idx := domain.NewOrderIndex(orders)
	orderDate := make(map[string]string, len(orders))
	for _, o := range orders {
		orderDate[o.OrderID] = o.OrderDate.Format(domain.DateLayout)
	}

	for i, s := range shipments {
		if s.ShipmentID == "" || s.OrderID == "" || s.DispatchDate.IsZero() ||
			s.ExpectedDeliveryDate.IsZero() || s.ActualDeliveryDate.IsZero() || s.Region == "" {
			return fmt.Errorf("shipment row %d: %w", i, domain.ErrMissingField)
		}
		ordered, ok := idx.OrderedQuantity(s.OrderID)
		if !ok {
			return fmt.Errorf("shipment %s: order %s: %w", s.ShipmentID, s.OrderID, domain.ErrOrphanShipment)
		}
		if s.DeliveredQty > ordered {
			return fmt.Errorf("shipment %s: delivered %d > ordered %d: %w",
				s.ShipmentID, s.DeliveredQty, ordered, domain.ErrOverDelivery)
		}
		if s.ActualDeliveryDate.Before(s.DispatchDate) {
			return fmt.Errorf("shipment %s: %w", s.ShipmentID, domain.ErrDeliveryBeforeDispatch)
		}
		if od := orderDate[s.OrderID]; s.DispatchDate.Format(domain.DateLayout) <= od {
			return fmt.Errorf("shipment %s: dispatch %s, ordered %s: %w",
				s.ShipmentID, s.DispatchDate.Format(domain.DateLayout), od, domain.ErrDispatchBeforeOrder)
		}
		if s.FreightCost < 0 {
			return fmt.Errorf("shipment %s: negative freight cost %.2f", s.ShipmentID, s.FreightCost)
		}
	}
	return nil
}

// ValidateDataset re-checks every invariant across an assembled dataset.
// The pipeline already validates stage by stage; this exists for callers
// holding a dataset of unknown provenance (API reloads, tests).
func ValidateDataset(ds *domain.Dataset, cfg config.GeneratorConfig) error {
	if err := validateWeather(ds.Weather, cfg); err != nil {
		return err
	}
	if err := validateOrders(ds.Orders, cfg); err != nil {
		return err
	}
	if err := validateInventory(ds.Inventory); err != nil {
		return err
	}
	return validateShipments(ds.Shipments, ds.Orders)
}

func regionSet(cfg config.GeneratorConfig) map[string]bool {
	set := make(map[string]bool, len(cfg.Regions))
	for _, r := range cfg.Regions {
		set[r] = true
	}
	return set
}
