package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"supplysim/internal/cache"
	"supplysim/internal/config"
	"supplysim/internal/domain"
	"supplysim/internal/simulate"
	"supplysim/pkg/logger"
)

// DatasetService owns the most recent generation run and answers table
// queries for the API. Generation replaces the whole dataset atomically;
// readers see either the previous run or the new one, never a mix.
type DatasetService struct {
	cfg   config.GeneratorConfig
	cache cache.SummaryCache
	log   zerolog.Logger

	mu          sync.RWMutex
	dataset     *domain.Dataset
	runID       string
	generatedAt time.Time
}

// TableFilter narrows table queries. Zero values mean "no filter".
type TableFilter struct {
	Region   string
	SKUID    string
	FromDate time.Time
	ToDate   time.Time
	Page     int
	PageSize int
}

// Page wraps one page of rows with pagination metadata.
type Page[T any] struct {
	Rows     []T `json:"rows"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

var ErrNoDataset = fmt.Errorf("no dataset generated yet")

func NewDatasetService(cfg config.GeneratorConfig, summaryCache cache.SummaryCache) *DatasetService {
	if summaryCache == nil {
		summaryCache = cache.NewNoopSummaryCache()
	}
	return &DatasetService{
		cfg:   cfg,
		cache: summaryCache,
		log:   logger.With("dataset_service"),
	}
}

// Generate runs the full pipeline and installs the result as the current
// dataset under a fresh run ID.
func (s *DatasetService) Generate(ctx context.Context) (*domain.Summary, error) {
	ds, err := simulate.NewPipeline(s.cfg).Run(ctx)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	now := time.Now().UTC()

	s.mu.Lock()
	s.dataset = ds
	s.runID = runID
	s.generatedAt = now
	s.mu.Unlock()

	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("summary cache invalidation failed")
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("run_id", runID).Msg("dataset generated")
	return summary, nil
}

// Summary returns the cross-table summary of the current run, served from
// cache when possible.
func (s *DatasetService) Summary(ctx context.Context) (*domain.Summary, error) {
	if cached, ok, err := s.cache.Get(ctx); err != nil {
		s.log.Warn().Err(err).Msg("summary cache read failed")
	} else if ok {
		return cached, nil
	}

	s.mu.RLock()
	ds, runID, generatedAt := s.dataset, s.runID, s.generatedAt
	s.mu.RUnlock()
	if ds == nil {
		return nil, ErrNoDataset
	}

	summary := simulate.NewPipeline(s.cfg).Summarize(ds)
	summary.RunID = runID
	summary.GeneratedAt = generatedAt

	if err := s.cache.Set(ctx, &summary); err != nil {
		s.log.Warn().Err(err).Msg("summary cache write failed")
	}
	return &summary, nil
}

// Dataset returns the current dataset for bulk consumers (export, seeding).
func (s *DatasetService) Dataset() (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return s.dataset, nil
}

// Weather returns one page of the weather table.
func (s *DatasetService) Weather(filter TableFilter) (*Page[domain.RegionDay], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}

	matched := make([]domain.RegionDay, 0)
	for _, w := range s.dataset.Weather {
		if filter.Region != "" && w.Region != filter.Region {
			continue
		}
		if !dateInRange(w.Date, filter) {
			continue
		}
		matched = append(matched, w)
	}
	return paginate(matched, filter), nil
}

// Orders returns one page of the order table.
func (s *DatasetService) Orders(filter TableFilter) (*Page[domain.Order], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}

	matched := make([]domain.Order, 0)
	for _, o := range s.dataset.Orders {
		if filter.Region != "" && o.Region != filter.Region {
			continue
		}
		if filter.SKUID != "" && o.SKUID != filter.SKUID {
			continue
		}
		if !dateInRange(o.OrderDate, filter) {
			continue
		}
		matched = append(matched, o)
	}
	return paginate(matched, filter), nil
}

// Inventory returns one page of the inventory ledger.
func (s *DatasetService) Inventory(filter TableFilter) (*Page[domain.InventorySnapshot], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}

	matched := make([]domain.InventorySnapshot, 0)
	for _, snap := range s.dataset.Inventory {
		if filter.SKUID != "" && snap.SKUID != filter.SKUID {
			continue
		}
		if !dateInRange(snap.SnapshotDate, filter) {
			continue
		}
		matched = append(matched, snap)
	}
	return paginate(matched, filter), nil
}

// Shipments returns one page of the shipment table.
func (s *DatasetService) Shipments(filter TableFilter) (*Page[domain.Shipment], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}

	matched := make([]domain.Shipment, 0)
	for _, sh := range s.dataset.Shipments {
		if filter.Region != "" && sh.Region != filter.Region {
			continue
		}
		if !dateInRange(sh.DispatchDate, filter) {
			continue
		}
		matched = append(matched, sh)
	}
	return paginate(matched, filter), nil
}

// Profiles returns the fixed SKU parameter catalog of the current run.
func (s *DatasetService) Profiles() ([]domain.SKUProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return s.dataset.Profiles, nil
}

func dateInRange(d time.Time, filter TableFilter) bool {
	if !filter.FromDate.IsZero() && d.Before(filter.FromDate) {
		return false
	}
	if !filter.ToDate.IsZero() && d.After(filter.ToDate) {
		return false
	}
	return true
}

func paginate[T any](rows []T, filter TableFilter) *Page[T] {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 100
	}

	start := (page - 1) * size
	if start > len(rows) {
		start = len(rows)
	}
	end := min(start+size, len(rows))

	return &Page[T]{
		Rows:     rows[start:end],
		Total:    len(rows),
		Page:     page,
		PageSize: size,
	}
}
