package correlation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"rental-inventory/core/audit"
	"rental-inventory/core/errs"
	"rental-inventory/core/rules"
	"rental-inventory/core/utils"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/ledger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Engine recomputes the catalog-to-tracking correlation as a full batch.
// It tolerates a slightly stale unit snapshot: confidence is advisory, the
// ledger stays authoritative for availability.
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
	rules  rules.Config
}

// NewEngine creates a correlation engine bound to a rule set.
func NewEngine(db *gorm.DB, logger *zap.Logger, ruleSet rules.Config) *Engine {
	return &Engine{db: db, logger: logger, rules: ruleSet}
}

// unitGroup aggregates the tracked units behind one normalized item key.
// classIDs keeps every raw spelling seen, so unit stamping catches padded
// and unpadded forms alike.
type unitGroup struct {
	classIDs []string
	name     string
	count    int
}

func (g *unitGroup) primaryClassID() string {
	if len(g.classIDs) == 0 {
		return ""
	}
	return g.classIDs[0]
}

func (g *unitGroup) addClassID(raw string) {
	for _, id := range g.classIDs {
		if id == raw {
			return
		}
	}
	g.classIDs = append(g.classIDs, raw)
}

// match is one scored correlation candidate.
type match struct {
	group     *unitGroup
	score     float64
	matchType NameMatchType
	byKey     bool
}

// Run recomputes every correlation. Records are chunked by category; a
// failing chunk leaves its items at their previous correlation and the run
// continues with the next chunk.
func (e *Engine) Run(ctx context.Context) (RunSummary, error) {
	summary := RunSummary{
		StartedAt:        time.Now().UTC(),
		RulesFingerprint: e.rules.Fingerprint(),
	}

	var (
		records []catalog.EquipmentRecord
		units   []ledger.InventoryUnit
		classes []TrackingClass
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.db.WithContext(gctx).Order("item_num asc").Find(&records).Error
	})
	g.Go(func() error {
		return e.db.WithContext(gctx).Where("status <> ?", ledger.StatusSold).Find(&units).Error
	})
	g.Go(func() error {
		return e.db.WithContext(gctx).Find(&classes).Error
	})
	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("loading correlation snapshot: %w", err)
	}
	summary.Processed = len(records)

	groups := groupUnits(units, classes)

	for _, chunk := range chunkByCategory(records) {
		if err := e.runChunk(ctx, chunk.records, groups, &summary); err != nil {
			summary.FailedChunks = append(summary.FailedChunks, chunk.category)
			e.logger.Error("Correlation chunk failed",
				zap.String("category", chunk.category),
				zap.Error(err),
			)
		}
	}

	summary.FinishedAt = time.Now().UTC()
	e.logger.Info("Correlation run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("matched", summary.Matched),
		zap.Int("key_matches", summary.KeyMatches),
		zap.Int("name_matches", summary.NameMatches),
		zap.Int("ambiguous", summary.Ambiguous),
		zap.Int("unmatched", len(summary.Unmatched)),
		zap.Strings("failed_chunks", summary.FailedChunks),
		zap.String("rules_fingerprint", summary.RulesFingerprint),
	)
	return summary, nil
}

type categoryChunk struct {
	category string
	records  []catalog.EquipmentRecord
}

func chunkByCategory(records []catalog.EquipmentRecord) []categoryChunk {
	byCategory := make(map[string][]catalog.EquipmentRecord)
	for _, r := range records {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	chunks := make([]categoryChunk, 0, len(categories))
	for _, c := range categories {
		chunks = append(chunks, categoryChunk{category: c, records: byCategory[c]})
	}
	return chunks
}

// groupUnits buckets non-sold units by their normalized tracking class key
// and attaches the class name when the importer supplied one.
func groupUnits(units []ledger.InventoryUnit, classes []TrackingClass) map[string]*unitGroup {
	names := make(map[string]string, len(classes))
	for _, class := range classes {
		names[utils.NormalizeItemKey(class.ClassID)] = class.Name
	}

	groups := make(map[string]*unitGroup)
	for _, unit := range units {
		if unit.TrackingClassID == "" {
			continue
		}
		key := utils.NormalizeItemKey(unit.TrackingClassID)
		group, ok := groups[key]
		if !ok {
			group = &unitGroup{name: names[key]}
			groups[key] = group
		}
		group.addClassID(unit.TrackingClassID)
		group.count++
	}

	// Classes with a name but no scanned units yet are still candidates for
	// name matching.
	for key, name := range names {
		if _, ok := groups[key]; !ok && name != "" {
			groups[key] = &unitGroup{classIDs: []string{key}, name: name}
		}
	}
	return groups
}

func (e *Engine) runChunk(ctx context.Context, records []catalog.EquipmentRecord, groups map[string]*unitGroup, summary *RunSummary) error {
	for _, record := range records {
		m, err := e.matchRecord(record, groups)
		if err != nil {
			if errs.IsAmbiguity(err) {
				summary.Ambiguous++
				summary.Unmatched = append(summary.Unmatched, UnmatchedItem{
					ItemNum: record.ItemNum, Name: record.Name, Reason: err.Error(),
				})
				if err := e.clearCorrelation(ctx, record); err != nil {
					return fmt.Errorf("clearing correlation for %s: %w", record.ItemNum, err)
				}
				continue
			}
			return err
		}
		if m == nil {
			summary.Unmatched = append(summary.Unmatched, UnmatchedItem{
				ItemNum: record.ItemNum, Name: record.Name, Reason: "no key or name match",
			})
			if err := e.clearCorrelation(ctx, record); err != nil {
				return fmt.Errorf("clearing correlation for %s: %w", record.ItemNum, err)
			}
			continue
		}

		if err := e.writeCorrelation(ctx, record, m); err != nil {
			return fmt.Errorf("writing correlation for %s: %w", record.ItemNum, err)
		}

		summary.Matched++
		if m.byKey {
			summary.KeyMatches++
		} else {
			summary.NameMatches++
		}
	}
	return nil
}

// matchRecord scores one catalog record against the unit groups. Key match
// wins outright; otherwise the best name match above the fuzzy threshold is
// taken, and equal top scores are refused rather than guessed.
func (e *Engine) matchRecord(record catalog.EquipmentRecord, groups map[string]*unitGroup) (*match, error) {
	recordKey := utils.NormalizeItemKey(record.ItemNum)
	recordName := NormalizeName(record.Name)

	if group, ok := groups[recordKey]; ok {
		m := &match{group: group, byKey: true, score: e.rules.KeyWeight, matchType: MatchNone}
		if group.name != "" {
			sim := Similarity(record.Name, group.name)
			m.score += e.rules.NameWeight * sim
			switch {
			case record.Name == group.name:
				m.matchType = MatchExact
			case recordName == NormalizeName(group.name):
				m.matchType = MatchNormalized
			case sim >= e.rules.FuzzyThreshold:
				m.matchType = MatchFuzzy
			}
		}
		return m, nil
	}

	// A confident name match is worth as much as a key match; fuzzy matches
	// never exceed the fuzzy cap.
	var candidates []match
	for _, group := range groups {
		if group.name == "" {
			continue
		}
		switch {
		case record.Name == group.name:
			candidates = append(candidates, match{group: group, score: e.rules.KeyWeight, matchType: MatchExact})
		case recordName != "" && recordName == NormalizeName(group.name):
			candidates = append(candidates, match{group: group, score: e.rules.KeyWeight, matchType: MatchNormalized})
		default:
			if sim := Similarity(record.Name, group.name); sim >= e.rules.FuzzyThreshold {
				candidates = append(candidates, match{group: group, score: e.rules.FuzzyCap * sim, matchType: MatchFuzzy})
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > 1 && candidates[0].score == candidates[1].score {
		return nil, &errs.AmbiguityError{
			ItemNum:    record.ItemNum,
			Candidates: []string{candidates[0].group.primaryClassID(), candidates[1].group.primaryClassID()},
		}
	}
	best := candidates[0]
	return &best, nil
}

// writeCorrelation supersedes the item's prior row, inserts the new one,
// stamps the matched units and audits the change, all in one transaction so
// readers never see a half-updated item.
func (e *Engine) writeCorrelation(ctx context.Context, record catalog.EquipmentRecord, m *match) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var prior EquipmentCorrelation
		priorClass := ""
		err := tx.Where("item_num = ? AND superseded_at IS NULL", record.ItemNum).First(&prior).Error
		if err == nil {
			priorClass = prior.TrackingClassID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Model(&EquipmentCorrelation{}).
			Where("item_num = ? AND superseded_at IS NULL", record.ItemNum).
			Update("superseded_at", now).Error; err != nil {
			return err
		}

		diff := record.Qty - m.group.count
		if diff < 0 {
			diff = -diff
		}
		row := EquipmentCorrelation{
			ItemNum:            record.ItemNum,
			TrackingClassID:    m.group.primaryClassID(),
			ConfidenceScore:    m.score,
			QuantityDifference: diff,
			NameMatchType:      m.matchType,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if len(m.group.classIDs) > 0 {
			// Units stamped for this item on an earlier run whose class is no
			// longer the match lose their stamp.
			if err := tx.Model(&ledger.InventoryUnit{}).
				Where("correlated_item_num = ? AND tracking_class_id NOT IN ?", record.ItemNum, m.group.classIDs).
				Update("correlated_item_num", nil).Error; err != nil {
				return err
			}
			if err := tx.Model(&ledger.InventoryUnit{}).
				Where("tracking_class_id IN ? AND status <> ?", m.group.classIDs, ledger.StatusSold).
				Update("correlated_item_num", record.ItemNum).Error; err != nil {
				return err
			}
		}

		return audit.NewRecorder(tx).Record(row.TableName(), record.ItemNum,
			"tracking_class_id", priorClass, row.TrackingClassID, "correlation-engine")
	})
}

// clearCorrelation retires an item that matched on an earlier run but not
// on this one: its current row is superseded and its unit stamps are
// cleared, so readers see NoCorrelation instead of a stale link.
func (e *Engine) clearCorrelation(ctx context.Context, record catalog.EquipmentRecord) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior EquipmentCorrelation
		err := tx.Where("item_num = ? AND superseded_at IS NULL", record.ItemNum).First(&prior).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Model(&EquipmentCorrelation{}).
			Where("item_num = ? AND superseded_at IS NULL", record.ItemNum).
			Update("superseded_at", now).Error; err != nil {
			return err
		}
		if err := tx.Model(&ledger.InventoryUnit{}).
			Where("correlated_item_num = ?", record.ItemNum).
			Update("correlated_item_num", nil).Error; err != nil {
			return err
		}
		return audit.NewRecorder(tx).Record(prior.TableName(), record.ItemNum,
			"tracking_class_id", prior.TrackingClassID, "", "correlation-engine")
	})
}
