package ledger

import (
	"context"
	"testing"
	"time"

	"rental-inventory/core/audit"
	"rental-inventory/core/database"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProcessor(t *testing.T) (*Processor, *gorm.DB) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&InventoryUnit{}, &ScanEvent{}, &audit.Entry{}))
	return NewProcessor(db, zap.NewNop(), 1), db
}

func appendEvent(t *testing.T, db *gorm.DB, tagID string, eventType EventType, ts time.Time, attrs EventAttributes) ScanEvent {
	event := ScanEvent{
		TagID:      tagID,
		EventType:  eventType,
		Timestamp:  ts,
		Actor:      "scanner",
		Attributes: attrs,
	}
	assert.NoError(t, db.Create(&event).Error)
	return event
}

func unitByTag(t *testing.T, db *gorm.DB, tagID string) InventoryUnit {
	var unit InventoryUnit
	assert.NoError(t, db.Where("tag_id = ?", tagID).First(&unit).Error)
	return unit
}

func TestApplyPending_Discovery(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	appendEvent(t, db, "TAG-1", EventCheckout, now, EventAttributes{StoreCode: "8101", TrackingClassID: "728"})

	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Applied)
	assert.Equal(t, 1, summary.Discovered)
	assert.Equal(t, 0, summary.Anomalies)

	unit := unitByTag(t, db, "TAG-1")
	assert.Equal(t, StatusOnRent, unit.Status)
	assert.Equal(t, "8101", unit.StoreCode)
	assert.Equal(t, "728", unit.TrackingClassID)

	// The status change is audited
	entries, err := audit.NewRecorder(db).ForRecord("inventory_units", "TAG-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "Available", entries[0].OldValue)
	assert.Equal(t, "OnRent", entries[0].NewValue)
}

func TestApplyPending_IdempotentReplay(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	event := appendEvent(t, db, "TAG-1", EventCheckout, now, EventAttributes{})

	_, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	first := unitByTag(t, db, "TAG-1")

	// Force the same event back into the pending set
	assert.NoError(t, db.Model(&ScanEvent{}).Where("id = ?", event.ID).Update("applied_at", nil).Error)

	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 0, summary.Applied)

	second := unitByTag(t, db, "TAG-1")
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.LastEventID, second.LastEventID)
	assert.True(t, first.LastScanAt.Equal(second.LastScanAt))
}

func TestApplyPending_ReplayOfEarlierEventIsDiscarded(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	checkout := appendEvent(t, db, "TAG-1", EventCheckout, now, EventAttributes{})
	appendEvent(t, db, "TAG-1", EventCheckin, now.Add(time.Minute), EventAttributes{})

	_, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, StatusAvailable, unitByTag(t, db, "TAG-1").Status)

	// Replaying the earlier event must not regress the unit
	assert.NoError(t, db.Model(&ScanEvent{}).Where("id = ?", checkout.ID).Update("applied_at", nil).Error)

	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Stale)
	assert.Equal(t, 0, summary.Applied)
	assert.Equal(t, StatusAvailable, unitByTag(t, db, "TAG-1").Status)
}

func TestApplyPending_StaleEventDiscarded(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	appendEvent(t, db, "TAG-1", EventCheckout, now, EventAttributes{})
	_, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)

	// An out-of-order delivery: older than the applied state
	appendEvent(t, db, "TAG-1", EventCheckin, now.Add(-time.Hour), EventAttributes{})

	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Stale)

	unit := unitByTag(t, db, "TAG-1")
	assert.Equal(t, StatusOnRent, unit.Status)
}

func TestApplyPending_CheckoutFromServiceIsAnomalous(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	appendEvent(t, db, "TAG-1", EventSendToService, now, EventAttributes{})
	appendEvent(t, db, "TAG-1", EventCheckout, now.Add(time.Minute), EventAttributes{})

	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Anomalies)

	// Physical reality wins: the unit is on rent
	unit := unitByTag(t, db, "TAG-1")
	assert.Equal(t, StatusOnRent, unit.Status)

	// The anomaly is recorded alongside the status changes
	entries, err := audit.NewRecorder(db).ForRecord("inventory_units", "TAG-1")
	assert.NoError(t, err)
	var anomalies int
	for _, e := range entries {
		if e.Field == "anomaly" {
			anomalies++
			assert.Equal(t, "InService", e.OldValue)
		}
	}
	assert.Equal(t, 1, anomalies)
}

func TestApplyPending_RejectedTransition(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	// Sale without MarkResale is rejected, not applied
	appendEvent(t, db, "TAG-1", EventCheckin, now, EventAttributes{})
	appendEvent(t, db, "TAG-1", EventSale, now.Add(time.Minute), EventAttributes{})

	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Rejected)

	unit := unitByTag(t, db, "TAG-1")
	assert.Equal(t, StatusAvailable, unit.Status)

	// Rejected events are consumed, not retried
	summary, err = proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
}

func TestApplyPending_ResaleLifecycle(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	appendEvent(t, db, "TAG-1", EventCheckin, now, EventAttributes{})
	appendEvent(t, db, "TAG-1", EventMarkResale, now.Add(time.Minute), EventAttributes{})
	appendEvent(t, db, "TAG-1", EventSale, now.Add(2*time.Minute), EventAttributes{})

	_, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)

	unit := unitByTag(t, db, "TAG-1")
	assert.Equal(t, StatusSold, unit.Status)

	// Sold is terminal: further events are rejected
	appendEvent(t, db, "TAG-1", EventCheckout, now.Add(3*time.Minute), EventAttributes{})
	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, StatusSold, unitByTag(t, db, "TAG-1").Status)
}

func TestApplyPending_CausalOrderPerTag(t *testing.T) {
	proc, db := setupProcessor(t)
	now := time.Now().UTC()

	// Inserted out of order; applied in (timestamp, id) order
	appendEvent(t, db, "TAG-1", EventCheckin, now.Add(time.Hour), EventAttributes{})
	appendEvent(t, db, "TAG-1", EventCheckout, now, EventAttributes{})

	summary, err := proc.ApplyPending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Applied)

	unit := unitByTag(t, db, "TAG-1")
	assert.Equal(t, StatusAvailable, unit.Status)
	assert.True(t, unit.LastScanAt.Equal(now.Add(time.Hour)))
}
