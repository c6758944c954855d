package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"rental-inventory/core/audit"
	"rental-inventory/core/errs"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Processor applies pending scan events to the unit ledger. Events are
// partitioned by tag: one tag's events apply serially in causal order,
// different tags apply in parallel, so contention is bounded to one unit
// row plus its audit append.
type Processor struct {
	db      *gorm.DB
	logger  *zap.Logger
	workers int
}

// NewProcessor creates a processor with the given parallelism.
func NewProcessor(db *gorm.DB, logger *zap.Logger, workers int) *Processor {
	if workers <= 0 {
		workers = 4
	}
	return &Processor{db: db, logger: logger, workers: workers}
}

// ApplyPending consumes every unapplied event, in (timestamp, id) order per
// tag. A rejected event is marked applied so it is not retried forever; the
// rejection is counted and logged.
func (p *Processor) ApplyPending(ctx context.Context) (ApplySummary, error) {
	var pending []ScanEvent
	err := p.db.WithContext(ctx).
		Where("applied_at IS NULL").
		Order("tag_id asc, timestamp asc, id asc").
		Find(&pending).Error
	if err != nil {
		return ApplySummary{}, err
	}

	groups := make(map[string][]ScanEvent)
	for _, event := range pending {
		groups[event.TagID] = append(groups[event.TagID], event)
	}

	var (
		mu      sync.Mutex
		summary ApplySummary
	)
	summary.Processed = len(pending)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for tagID, events := range groups {
		tagID, events := tagID, events
		g.Go(func() error {
			partial, err := p.applyTagEvents(gctx, tagID, events)
			if err != nil {
				return err
			}
			mu.Lock()
			summary.Applied += partial.Applied
			summary.Discovered += partial.Discovered
			summary.Stale += partial.Stale
			summary.Duplicates += partial.Duplicates
			summary.Anomalies += partial.Anomalies
			summary.Rejected += partial.Rejected
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	p.logger.Info("Scan events applied",
		zap.Int("processed", summary.Processed),
		zap.Int("applied", summary.Applied),
		zap.Int("discovered", summary.Discovered),
		zap.Int("stale", summary.Stale),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("anomalies", summary.Anomalies),
		zap.Int("rejected", summary.Rejected),
	)
	return summary, nil
}

// ApplyTag applies the pending events of a single tag. Used by the command
// path so an operator sees the effect of a command immediately.
func (p *Processor) ApplyTag(ctx context.Context, tagID string) (ApplySummary, error) {
	var pending []ScanEvent
	err := p.db.WithContext(ctx).
		Where("tag_id = ? AND applied_at IS NULL", tagID).
		Order("timestamp asc, id asc").
		Find(&pending).Error
	if err != nil {
		return ApplySummary{}, err
	}

	summary, err := p.applyTagEvents(ctx, tagID, pending)
	if err != nil {
		return summary, err
	}
	summary.Processed = len(pending)
	return summary, nil
}

func (p *Processor) applyTagEvents(ctx context.Context, tagID string, events []ScanEvent) (ApplySummary, error) {
	var summary ApplySummary

	for _, event := range events {
		result, err := p.applyOne(ctx, event)
		if err != nil {
			return summary, err
		}
		switch result.kind {
		case appliedEvent:
			summary.Applied++
		case discoveredUnit:
			summary.Applied++
			summary.Discovered++
		case staleEvent:
			summary.Stale++
			p.logger.Debug("Scan event discarded",
				zap.String("tag_id", tagID),
				zap.Uint64("event_id", event.ID),
				zap.String("reason", result.reason),
			)
		case duplicateEvent:
			summary.Duplicates++
		case rejectedEvent:
			summary.Rejected++
			p.logger.Warn("Scan event rejected",
				zap.String("tag_id", tagID),
				zap.Uint64("event_id", event.ID),
				zap.String("event_type", string(event.EventType)),
				zap.String("reason", result.reason),
			)
		}
		if result.anomaly {
			summary.Anomalies++
		}
	}
	return summary, nil
}

type applyKind int

const (
	appliedEvent applyKind = iota
	discoveredUnit
	staleEvent
	duplicateEvent
	rejectedEvent
)

type applyResult struct {
	kind    applyKind
	anomaly bool
	reason  string
}

func (p *Processor) applyOne(ctx context.Context, event ScanEvent) (applyResult, error) {
	var result applyResult

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := audit.NewRecorder(tx)
		now := time.Now().UTC()

		var unit InventoryUnit
		err := tx.Where("tag_id = ?", event.TagID).First(&unit).Error
		discovered := false
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First discovery: the unit enters the machine as Available.
			unit = InventoryUnit{
				TagID:  event.TagID,
				Status: StatusAvailable,
			}
			discovered = true
		} else if err != nil {
			return err
		}

		// The applied watermark is the (timestamp, id) tuple, not the id
		// alone: a late insert can carry a smaller id than an event already
		// applied with a later timestamp, and is still causally newer.
		if !discovered {
			// Last-writer-wins by event time: an older event cannot regress
			// state delivered out of order.
			if event.Timestamp.Before(unit.LastScanAt) {
				stale := &errs.StaleEventError{TagID: event.TagID}
				result = applyResult{kind: staleEvent, reason: stale.Error()}
				return tx.Model(&ScanEvent{}).Where("id = ?", event.ID).Update("applied_at", now).Error
			}
			// At the watermark timestamp only a replay at or below the
			// applied id is a duplicate.
			if event.Timestamp.Equal(unit.LastScanAt) && event.ID <= unit.LastEventID {
				result = applyResult{kind: duplicateEvent}
				return tx.Model(&ScanEvent{}).Where("id = ?", event.ID).Update("applied_at", now).Error
			}
		}

		outcome, err := NextStatus(unit.Status, event.EventType)
		if err != nil {
			result = applyResult{kind: rejectedEvent, reason: err.Error()}
			return tx.Model(&ScanEvent{}).Where("id = ?", event.ID).Update("applied_at", now).Error
		}

		oldStatus := unit.Status
		unit.Status = outcome.Next
		unit.LastScanAt = event.Timestamp
		unit.LastEventID = event.ID
		if event.ContractRef != "" {
			unit.LastContractRef = event.ContractRef
		}
		if event.Attributes.StoreCode != "" {
			unit.StoreCode = event.Attributes.StoreCode
		}
		if event.Attributes.BinLocation != "" {
			unit.BinLocation = event.Attributes.BinLocation
		}
		if event.Attributes.Quality != "" {
			unit.Quality = event.Attributes.Quality
		}
		if event.Attributes.TrackingClassID != "" {
			unit.TrackingClassID = event.Attributes.TrackingClassID
		}

		if err := tx.Save(&unit).Error; err != nil {
			return err
		}

		// Audit only an actual status change.
		if oldStatus != unit.Status {
			if err := rec.Record(unit.TableName(), unit.TagID, "status", string(oldStatus), string(unit.Status), event.Actor); err != nil {
				return err
			}
		}
		if outcome.Anomaly {
			if err := rec.Record(unit.TableName(), unit.TagID, "anomaly",
				string(oldStatus), string(event.EventType), event.Actor); err != nil {
				return err
			}
		}

		kind := appliedEvent
		if discovered {
			kind = discoveredUnit
		}
		result = applyResult{kind: kind, anomaly: outcome.Anomaly}
		return tx.Model(&ScanEvent{}).Where("id = ?", event.ID).Update("applied_at", now).Error
	})
	return result, err
}
