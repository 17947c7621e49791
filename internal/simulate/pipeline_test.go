package simulate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplysim/internal/config"
)

func TestPipelineRunDeterministic(t *testing.T) {
	cfg := config.DefaultGenerator()

	first, err := NewPipeline(cfg).Run(context.Background())
	require.NoError(t, err)
	second, err := NewPipeline(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestPipelineRunConsistency(t *testing.T) {
	cfg := config.DefaultGenerator()

	ds, err := NewPipeline(cfg).Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, ValidateDataset(ds, cfg))

	assert.Len(t, ds.Weather, 365*len(cfg.Regions))
	assert.Len(t, ds.Inventory, 365*len(cfg.Regions)*cfg.NumSKUs)
	assert.Len(t, ds.Profiles, cfg.NumSKUs)
	require.Len(t, ds.Shipments, len(ds.Orders))

	// Profiles must carry both halves after the run.
	for _, p := range ds.Profiles {
		assert.Positive(t, p.UnitPrice)
		assert.Positive(t, p.LeadTimeDays)
		assert.Positive(t, p.ReorderPoint)
	}
}

func TestPipelineRunCanceled(t *testing.T) {
	cfg := config.DefaultGenerator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(cfg).Run(ctx)
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	cfg := config.DefaultGenerator()
	p := NewPipeline(cfg)

	ds, err := p.Run(context.Background())
	require.NoError(t, err)

	summary := p.Summarize(ds)
	assert.Equal(t, cfg.Seed, summary.Seed)
	assert.Equal(t, "2023-01-01", summary.StartDate)
	assert.Equal(t, "2023-12-31", summary.EndDate)
	assert.Equal(t, len(ds.Weather), summary.WeatherRows)
	assert.Equal(t, len(ds.Orders), summary.OrderRows)
	assert.Equal(t, len(ds.Inventory), summary.InventoryRows)
	assert.Equal(t, len(ds.Shipments), summary.ShipmentRows)

	assert.Greater(t, summary.StormRate, 0.0)
	assert.Less(t, summary.StormRate, 0.2)
	assert.Greater(t, summary.DelayRate, 0.0)
	assert.Less(t, summary.DelayRate, 0.3)
	assert.Greater(t, summary.InFullRate, 0.9)
	assert.Positive(t, summary.TotalOrderedQty)
	assert.Positive(t, summary.TotalFreight)
}
