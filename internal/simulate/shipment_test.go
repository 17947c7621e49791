package simulate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplysim/internal/config"
	"supplysim/internal/domain"
)

func generateUpstream(t *testing.T, cfg config.GeneratorConfig) ([]domain.Order, []domain.RegionDay) {
	t.Helper()
	weather, err := NewWeatherModel(cfg).Generate()
	require.NoError(t, err)
	orders, _, err := NewDemandModel(cfg).Generate()
	require.NoError(t, err)
	return orders, weather
}

func TestShipmentRunDeterministic(t *testing.T) {
	cfg := config.DefaultGenerator()
	orders, weather := generateUpstream(t, cfg)

	a, err := NewShipmentModel(cfg).Run(orders, weather)
	require.NoError(t, err)
	b, err := NewShipmentModel(cfg).Run(orders, weather)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

func TestShipmentCausalOrdering(t *testing.T) {
	cfg := config.DefaultGenerator()
	orders, weather := generateUpstream(t, cfg)

	shipments, err := NewShipmentModel(cfg).Run(orders, weather)
	require.NoError(t, err)
	require.Len(t, shipments, len(orders))

	for i, s := range shipments {
		o := orders[i]
		require.Equal(t, o.OrderID, s.OrderID)
		assert.Equal(t, "SHP_"+o.OrderID, s.ShipmentID)
		assert.Equal(t, o.Region, s.Region)

		assert.True(t, s.DispatchDate.After(o.OrderDate),
			"dispatch must follow the order date")
		assert.LessOrEqual(t, daysBetween(o.OrderDate, s.DispatchDate), cfg.Shipment.DispatchDelayMax)

		transit := daysBetween(s.DispatchDate, s.ExpectedDeliveryDate)
		assert.GreaterOrEqual(t, transit, cfg.Shipment.TransitDaysMin)
		assert.LessOrEqual(t, transit, cfg.Shipment.TransitDaysMax)

		assert.False(t, s.ActualDeliveryDate.Before(s.ExpectedDeliveryDate))
		assert.LessOrEqual(t, daysBetween(s.ExpectedDeliveryDate, s.ActualDeliveryDate), cfg.Shipment.DelayDaysMax)

		assert.LessOrEqual(t, s.DeliveredQty, o.Quantity)
		assert.GreaterOrEqual(t, s.DeliveredQty, 0)
	}
}

func TestShipmentFreightAndPartials(t *testing.T) {
	cfg := config.DefaultGenerator()
	orders, weather := generateUpstream(t, cfg)

	shipments, err := NewShipmentModel(cfg).Run(orders, weather)
	require.NoError(t, err)

	partials := 0
	for i, s := range shipments {
		delayed := s.ActualDeliveryDate.After(s.ExpectedDeliveryDate)
		expected := cfg.Shipment.BaseFreightCost + float64(s.DeliveredQty)*cfg.Shipment.CostPerUnit
		if delayed {
			expected *= cfg.Shipment.ExpediteMultiplier
		}
		assert.InDelta(t, round2(expected), s.FreightCost, 1e-9)

		if s.DeliveredQty < orders[i].Quantity {
			partials++
			// Partial fulfillment only ever accompanies a delay.
			assert.True(t, delayed, "partial shipment %s must be delayed", s.ShipmentID)
		}
	}
	assert.Positive(t, partials, "a year of orders should contain some partials")
}

// With every expected delivery landing on a storm day, the realized delay
// rate should sit near base + increment (0.35).
func TestShipmentStormDelayRate(t *testing.T) {
	cfg := config.DefaultGenerator()

	var weather []domain.RegionDay
	for d := cfg.StartDate; !d.After(cfg.EndDate.AddDate(0, 0, 10)); d = d.AddDate(0, 0, 1) {
		weather = append(weather, domain.RegionDay{
			Date:       d,
			Region:     "North",
			RainfallMM: 60,
			StormFlag:  1,
		})
	}

	orderDate := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]domain.Order, 2000)
	for i := range orders {
		orders[i] = domain.Order{
			OrderID:   fmt.Sprintf("ORD_%07d", i+1),
			OrderDate: orderDate,
			SKUID:     "SKU_001",
			Quantity:  10,
			UnitPrice: 50,
			Region:    "North",
		}
	}

	shipments, err := NewShipmentModel(cfg).Run(orders, weather)
	require.NoError(t, err)

	rate := DelayRate(shipments)
	wantRate := cfg.Shipment.BaseDelayProbability + cfg.Shipment.StormDelayIncrement
	assert.InDelta(t, wantRate, rate, 0.05)
}

func TestShipmentOffHorizonWeatherDefaultsClear(t *testing.T) {
	cfg := config.DefaultGenerator()

	// No weather at all: every delay check runs at the base probability.
	orderDate := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]domain.Order, 2000)
	for i := range orders {
		orders[i] = domain.Order{
			OrderID:   fmt.Sprintf("ORD_%07d", i+1),
			OrderDate: orderDate,
			SKUID:     "SKU_001",
			Quantity:  5,
			UnitPrice: 50,
			Region:    "North",
		}
	}

	shipments, err := NewShipmentModel(cfg).Run(orders, nil)
	require.NoError(t, err)

	assert.InDelta(t, cfg.Shipment.BaseDelayProbability, DelayRate(shipments), 0.05)
}

func TestInFullRateAndTotalFreight(t *testing.T) {
	day := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{OrderID: "ORD_0000001", OrderDate: day, SKUID: "SKU_001", Quantity: 10, Region: "North"},
		{OrderID: "ORD_0000002", OrderDate: day, SKUID: "SKU_001", Quantity: 10, Region: "North"},
	}
	shipments := []domain.Shipment{
		{
			ShipmentID: "SHP_ORD_0000001", OrderID: "ORD_0000001",
			DispatchDate:         day.AddDate(0, 0, 1),
			ExpectedDeliveryDate: day.AddDate(0, 0, 3),
			ActualDeliveryDate:   day.AddDate(0, 0, 3),
			DeliveredQty:         10, FreightCost: 70, Region: "North",
		},
		{
			ShipmentID: "SHP_ORD_0000002", OrderID: "ORD_0000002",
			DispatchDate:         day.AddDate(0, 0, 1),
			ExpectedDeliveryDate: day.AddDate(0, 0, 3),
			ActualDeliveryDate:   day.AddDate(0, 0, 5),
			DeliveredQty:         7, FreightCost: 96, Region: "North",
		},
	}

	assert.InDelta(t, 0.5, InFullRate(shipments, orders), 1e-9)
	assert.InDelta(t, 0.5, DelayRate(shipments), 1e-9)
	assert.InDelta(t, 166.0, TotalFreight(shipments), 1e-9)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
