package domain

import "time"

// OrderIndex provides the read-only, keyed view of the order stream the
// downstream stages need: total ordered quantity per (date, region, SKU)
// for the ledger, and per-order quantity for shipment validation.
type OrderIndex struct {
	qtyByDayRegionSKU map[string]int
	qtyByOrderID      map[string]int
}

// NewOrderIndex builds the index in one pass over the order stream.
func NewOrderIndex(orders []Order) *OrderIndex {
	idx := &OrderIndex{
		qtyByDayRegionSKU: make(map[string]int),
		qtyByOrderID:      make(map[string]int, len(orders)),
	}
	for _, o := range orders {
		idx.qtyByDayRegionSKU[dayRegionSKUKey(o.OrderDate, o.Region, o.SKUID)] += o.Quantity
		idx.qtyByOrderID[o.OrderID] = o.Quantity
	}
	return idx
}

// QuantityOn returns the total ordered quantity for a (date, region, SKU) cell.
func (idx *OrderIndex) QuantityOn(date time.Time, region, skuID string) int {
	return idx.qtyByDayRegionSKU[dayRegionSKUKey(date, region, skuID)]
}

// OrderedQuantity returns the quantity of a single order, with ok=false for
// unknown order IDs.
func (idx *OrderIndex) OrderedQuantity(orderID string) (int, bool) {
	qty, ok := idx.qtyByOrderID[orderID]
	return qty, ok
}

// WeatherIndex answers storm lookups by (date, region).
type WeatherIndex struct {
	stormByDayRegion map[string]int
}

// NewWeatherIndex builds the lookup table from the weather series.
func NewWeatherIndex(weather []RegionDay) *WeatherIndex {
	idx := &WeatherIndex{stormByDayRegion: make(map[string]int, len(weather))}
	for _, w := range weather {
		idx.stormByDayRegion[dayRegionKey(w.Date, w.Region)] = w.StormFlag
	}
	return idx
}

// StormFlagOn returns the storm flag for (date, region). Dates outside the
// generated horizon default to no storm; that is a defined outcome, not an
// error.
func (idx *WeatherIndex) StormFlagOn(date time.Time, region string) int {
	return idx.stormByDayRegion[dayRegionKey(date, region)]
}

func dayRegionSKUKey(date time.Time, region, skuID string) string {
	return date.Format(DateLayout) + "|" + region + "|" + skuID
}

func dayRegionKey(date time.Time, region string) string {
	return date.Format(DateLayout) + "|" + region
}
