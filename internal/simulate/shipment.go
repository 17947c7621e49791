package simulate

import (
	"math"

	"github.com/rs/zerolog"

	"supplysim/internal/config"
	"supplysim/internal/domain"
	"supplysim/pkg/logger"
)

// ShipmentModel derives exactly one shipment per order, independently per
// order: the only state shared across orders is the stage's random stream.
// The delay probability is conditioned on the weather at the expected
// delivery date in the order's region.
type ShipmentModel struct {
	cfg config.GeneratorConfig
	log zerolog.Logger
}

func NewShipmentModel(cfg config.GeneratorConfig) *ShipmentModel {
	return &ShipmentModel{cfg: cfg, log: logger.With("shipment")}
}

// Run walks the order stream in generation order and simulates the causal
// date chain order -> dispatch -> expected delivery -> actual delivery,
// with weather-conditioned delays, rare partial fulfillment and freight
// costing. Invariants are checked per row at construction time and again
// across the whole batch against the order stream.
func (m *ShipmentModel) Run(orders []domain.Order, weather []domain.RegionDay) ([]domain.Shipment, error) {
	rng := newStageRNG(m.cfg.Seed)
	scfg := m.cfg.Shipment
	widx := domain.NewWeatherIndex(weather)

	shipments := make([]domain.Shipment, 0, len(orders))

	for _, order := range orders {
		dispatch := order.OrderDate.AddDate(0, 0, intBetween(rng, scfg.DispatchDelayMin, scfg.DispatchDelayMax))
		expected := dispatch.AddDate(0, 0, intBetween(rng, scfg.TransitDaysMin, scfg.TransitDaysMax))

		// Off-horizon expected deliveries default to storm_flag=0.
		stormFlag := widx.StormFlagOn(expected, order.Region)

		delayProb := scfg.BaseDelayProbability
		if stormFlag == 1 {
			delayProb += scfg.StormDelayIncrement
		}

		actual := expected
		delayed := false
		if rng.Float64() < delayProb {
			delayed = true
			actual = expected.AddDate(0, 0, intBetween(rng, scfg.DelayDaysMin, scfg.DelayDaysMax))
		}

		// Partial fulfillment only ever accompanies a delay.
		delivered := order.Quantity
		if delayed && rng.Float64() < scfg.PartialProbability {
			delivered = int(float64(order.Quantity) * uniform(rng, scfg.PartialFractionMin, scfg.PartialFractionMax))
		}

		freight := scfg.BaseFreightCost + float64(delivered)*scfg.CostPerUnit
		if delayed {
			freight *= scfg.ExpediteMultiplier
		}

		shipments = append(shipments, domain.Shipment{
			ShipmentID:           "SHP_" + order.OrderID,
			OrderID:              order.OrderID,
			DispatchDate:         dispatch,
			ExpectedDeliveryDate: expected,
			ActualDeliveryDate:   actual,
			DeliveredQty:         delivered,
			FreightCost:          round2(freight),
			Region:               order.Region,
		})
	}

	if err := validateShipments(shipments, orders); err != nil {
		return nil, err
	}

	m.log.Info().Int("rows", len(shipments)).Msg("shipments generated")
	return shipments, nil
}

// DelayRate reports the fraction of shipments that arrived after their
// expected delivery date.
func DelayRate(shipments []domain.Shipment) float64 {
	if len(shipments) == 0 {
		return 0
	}
	delayed := 0
	for _, s := range shipments {
		if s.ActualDeliveryDate.After(s.ExpectedDeliveryDate) {
			delayed++
		}
	}
	return float64(delayed) / float64(len(shipments))
}

// InFullRate reports the fraction of shipments delivered in full, the
// "in-full" half of OTIF.
func InFullRate(shipments []domain.Shipment, orders []domain.Order) float64 {
	if len(shipments) == 0 {
		return 0
	}
	idx := domain.NewOrderIndex(orders)
	inFull := 0
	for _, s := range shipments {
		if qty, ok := idx.OrderedQuantity(s.OrderID); ok && s.DeliveredQty == qty {
			inFull++
		}
	}
	return float64(inFull) / float64(len(shipments))
}

// TotalFreight sums freight cost across a batch, rounded to cents.
func TotalFreight(shipments []domain.Shipment) float64 {
	total := 0.0
	for _, s := range shipments {
		total += s.FreightCost
	}
	return math.Round(total*100) / 100
}
