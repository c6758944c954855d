package inventory

import (
	"context"
	"sync"
	"time"

	"rental-inventory/core/rules"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/correlation"
	"rental-inventory/feature/ledger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// snapshot is one projected view of the whole inventory. Rows are sorted by
// item number; byItem indexes into rows.
type snapshot struct {
	rows   []CombinedInventoryRow
	byItem map[string]int
	built  time.Time
	ttl    time.Duration
}

func (s *snapshot) expired() bool {
	if s == nil {
		return true
	}
	if s.ttl == 0 {
		return true
	}
	return time.Since(s.built) > s.ttl
}

// Service serves the combined inventory read model. The projection is
// rebuilt from the relational snapshot at most once per TTL; concurrent
// rebuild requests collapse into a single load.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	rules  rules.Config
	ttl    time.Duration

	mu      sync.RWMutex
	current *snapshot
	sf      singleflight.Group
}

// NewService creates a new inventory service. ttl <= 0 disables caching.
func NewService(db *gorm.DB, logger *zap.Logger, ruleSet rules.Config, ttl time.Duration) *Service {
	return &Service{db: db, logger: logger, rules: ruleSet, ttl: ttl}
}

// List returns the combined inventory rows, optionally filtered by derived
// status and data quality flag.
func (s *Service) List(ctx context.Context, status ItemStatus, quality DataQualityFlag) ([]CombinedInventoryRow, error) {
	snap, err := s.getOrBuild(ctx)
	if err != nil {
		return nil, err
	}

	if status == "" && quality == "" {
		return snap.rows, nil
	}
	filtered := make([]CombinedInventoryRow, 0, len(snap.rows))
	for _, row := range snap.rows {
		if status != "" && row.Status != status {
			continue
		}
		if quality != "" && row.DataQualityFlag != quality {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered, nil
}

// Get returns one item's combined inventory row, or nil when the item is
// not in the catalog.
func (s *Service) Get(ctx context.Context, itemNum string) (*CombinedInventoryRow, error) {
	snap, err := s.getOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	idx, ok := snap.byItem[itemNum]
	if !ok {
		return nil, nil
	}
	row := snap.rows[idx]
	return &row, nil
}

// Invalidate drops the cached snapshot so the next read rebuilds. Batch
// jobs call this after a correlation or processor run.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Service) getOrBuild(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	snap := s.current
	s.mu.RUnlock()
	if !snap.expired() {
		return snap, nil
	}

	result, err, _ := s.sf.Do("snapshot", func() (interface{}, error) {
		s.mu.RLock()
		snap := s.current
		s.mu.RUnlock()
		if !snap.expired() {
			return snap, nil
		}

		fresh, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.current = fresh
		s.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*snapshot), nil
}

// build loads the catalog, active correlations and non-sold units in
// parallel and projects every row.
func (s *Service) build(ctx context.Context) (*snapshot, error) {
	var (
		records      []catalog.EquipmentRecord
		correlations []correlation.EquipmentCorrelation
		units        []ledger.InventoryUnit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("item_num asc").Find(&records).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("superseded_at IS NULL").Find(&correlations).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("status <> ? AND correlated_item_num IS NOT NULL", ledger.StatusSold).
			Find(&units).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	corrByItem := make(map[string]*correlation.EquipmentCorrelation, len(correlations))
	for i := range correlations {
		corrByItem[correlations[i].ItemNum] = &correlations[i]
	}
	unitsByItem := make(map[string][]ledger.InventoryUnit)
	for _, unit := range units {
		unitsByItem[*unit.CorrelatedItemNum] = append(unitsByItem[*unit.CorrelatedItemNum], unit)
	}

	snap := &snapshot{
		rows:   make([]CombinedInventoryRow, 0, len(records)),
		byItem: make(map[string]int, len(records)),
		built:  time.Now(),
		ttl:    s.ttl,
	}
	for _, record := range records {
		row := Project(record, corrByItem[record.ItemNum], unitsByItem[record.ItemNum], s.rules)
		snap.byItem[record.ItemNum] = len(snap.rows)
		snap.rows = append(snap.rows, row)
	}

	s.logger.Debug("Inventory snapshot rebuilt",
		zap.Int("rows", len(snap.rows)),
		zap.Int("units", len(units)),
	)
	return snap, nil
}
