package ledger

import (
	"context"
	"testing"
	"time"

	"rental-inventory/core/audit"
	"rental-inventory/core/database"
	"rental-inventory/core/errs"
	"rental-inventory/feature/catalog"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&InventoryUnit{}, &ScanEvent{}, &catalog.EquipmentRecord{}, &audit.Entry{}))

	logger := zap.NewNop()
	catalogSvc := catalog.NewService(db, logger)
	return NewService(db, logger, NewProcessor(db, logger, 1), catalogSvc), db
}

func seedItem(t *testing.T, db *gorm.DB, itemNum, name string) {
	assert.NoError(t, db.Create(&catalog.EquipmentRecord{ItemNum: itemNum, Name: name, Category: "TABLES", Qty: 10}).Error)
}

func TestAppendBatch_DedupeAndValidation(t *testing.T) {
	svc, db := setupService(t)
	now := time.Now().UTC()

	inputs := []AppendInput{
		{TagID: "TAG-1", EventType: EventCheckout, Timestamp: now, ContractRef: "C-100"},
		{TagID: "TAG-1", EventType: EventCheckout, Timestamp: now, ContractRef: "C-100"},
		{TagID: "", EventType: EventCheckin, Timestamp: now},
	}

	summary := svc.AppendBatch(context.Background(), inputs)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)

	// Replaying the whole batch inserts nothing new
	summary = svc.AppendBatch(context.Background(), inputs[:2])
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 2, summary.Skipped)

	var count int64
	assert.NoError(t, db.Model(&ScanEvent{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAssignTag(t *testing.T) {
	svc, db := setupService(t)
	seedItem(t, db, "100728", "60in Round Table")

	err := svc.AssignTag(context.Background(), "C-100", "100728", "TAG-1")
	assert.NoError(t, err)

	unit := unitByTag(t, db, "TAG-1")
	assert.Equal(t, StatusOnRent, unit.Status)
	assert.Equal(t, "C-100", unit.LastContractRef)
	assert.Equal(t, "100728", unit.TrackingClassID)
}

func TestAssignTag_ReasonCodes(t *testing.T) {
	svc, db := setupService(t)
	seedItem(t, db, "100728", "60in Round Table")

	err := svc.AssignTag(context.Background(), "", "100728", "TAG-1")
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), errs.ReasonUnknownContract)

	err = svc.AssignTag(context.Background(), "C-100", "999999", "TAG-1")
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), errs.ReasonUnknownItem)

	// First assignment holds the tag; a second contract cannot take it
	assert.NoError(t, svc.AssignTag(context.Background(), "C-100", "100728", "TAG-1"))
	err = svc.AssignTag(context.Background(), "C-200", "100728", "TAG-1")
	assert.True(t, errs.IsConflict(err))
	assert.Contains(t, err.Error(), errs.ReasonTagAssigned)
}

func TestUpdateStatus(t *testing.T) {
	svc, db := setupService(t)
	assert.NoError(t, db.Create(&InventoryUnit{TagID: "TAG-1", Status: StatusAvailable, LastScanAt: time.Now().UTC().Add(-time.Hour)}).Error)

	err := svc.UpdateStatus(context.Background(), "TAG-1", StatusInService)
	assert.NoError(t, err)
	assert.Equal(t, StatusInService, unitByTag(t, db, "TAG-1").Status)

	// Resale is only reachable from Available
	err = svc.UpdateStatus(context.Background(), "TAG-1", StatusMarkedForResale)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, StatusInService, unitByTag(t, db, "TAG-1").Status)

	err = svc.UpdateStatus(context.Background(), "TAG-9", StatusInService)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), errs.ReasonUnknownTag)
}

func TestUpdateStatus_SoldIsRetired(t *testing.T) {
	svc, db := setupService(t)
	assert.NoError(t, db.Create(&InventoryUnit{TagID: "TAG-1", Status: StatusSold}).Error)

	err := svc.UpdateStatus(context.Background(), "TAG-1", StatusAvailable)
	assert.True(t, errs.IsConflict(err))
	assert.Contains(t, err.Error(), errs.ReasonUnitRetired)
}

func TestMarkMissing(t *testing.T) {
	svc, db := setupService(t)
	assert.NoError(t, db.Create(&InventoryUnit{TagID: "TAG-1", Status: StatusOnRent}).Error)

	assert.NoError(t, svc.MarkMissing(context.Background(), "TAG-1", "health-detector"))
	assert.Equal(t, StatusMissing, unitByTag(t, db, "TAG-1").Status)

	// Repeat calls and sold units are no-ops
	assert.NoError(t, svc.MarkMissing(context.Background(), "TAG-1", "health-detector"))

	entries, err := audit.NewRecorder(db).ForRecord("inventory_units", "TAG-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "health-detector", entries[0].Actor)

	err = svc.MarkMissing(context.Background(), "TAG-9", "health-detector")
	assert.True(t, errs.IsValidation(err))
}

func TestListUnits_Filters(t *testing.T) {
	svc, db := setupService(t)
	item := "100728"
	assert.NoError(t, db.Create(&InventoryUnit{TagID: "TAG-1", Status: StatusAvailable, CorrelatedItemNum: &item}).Error)
	assert.NoError(t, db.Create(&InventoryUnit{TagID: "TAG-2", Status: StatusOnRent, CorrelatedItemNum: &item}).Error)
	assert.NoError(t, db.Create(&InventoryUnit{TagID: "TAG-3", Status: StatusOnRent}).Error)

	units, err := svc.ListUnits(context.Background(), StatusOnRent, "")
	assert.NoError(t, err)
	assert.Len(t, units, 2)

	units, err = svc.ListUnits(context.Background(), StatusOnRent, item)
	assert.NoError(t, err)
	assert.Len(t, units, 1)
	assert.Equal(t, "TAG-2", units[0].TagID)
}
