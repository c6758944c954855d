package stores

import (
	"context"
	"testing"

	"rental-inventory/core/audit"
	"rental-inventory/core/database"
	"rental-inventory/core/errs"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&StoreCorrelation{}, &audit.Entry{}))
	return NewService(db, zap.NewNop()), db
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("New Mapping", func(t *testing.T) {
		svc, _ := setupService(t)

		mapping, err := svc.Register(ctx, "8101", "4", "Main Street", true)
		assert.NoError(t, err)
		assert.Equal(t, "8101", mapping.TrackingStoreCode)
		assert.Equal(t, "4", mapping.PosStoreCode)
		assert.True(t, mapping.Active)
	})

	t.Run("Conflict On Second Counterpart", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.Register(ctx, "8101", "4", "Main Street", true)
		assert.NoError(t, err)

		// Same tracking code, different POS code, while active
		_, err = svc.Register(ctx, "8101", "5", "Main Street", true)
		assert.Error(t, err)
		assert.True(t, errs.IsConflict(err))

		// Same POS code, different tracking code
		_, err = svc.Register(ctx, "8102", "4", "Annex", true)
		assert.Error(t, err)
		assert.True(t, errs.IsConflict(err))
	})

	t.Run("Idempotent For Identical Pair", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.Register(ctx, "8101", "4", "Main Street", true)
		assert.NoError(t, err)
		mapping, err := svc.Register(ctx, "8101", "4", "Main Street", true)
		assert.NoError(t, err)
		assert.Equal(t, "4", mapping.PosStoreCode)
	})

	t.Run("Validation", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.Register(ctx, "", "4", "Main Street", true)
		assert.True(t, errs.IsValidation(err))
		_, err = svc.Register(ctx, "8101", "", "Main Street", true)
		assert.True(t, errs.IsValidation(err))
	})
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.Register(ctx, "8101", "4", "Main Street", true)
	assert.NoError(t, err)

	byTracking, err := svc.Lookup(ctx, "8101")
	assert.NoError(t, err)
	assert.NotNil(t, byTracking)
	assert.Equal(t, "4", byTracking.PosStoreCode)

	byPos, err := svc.Lookup(ctx, "4")
	assert.NoError(t, err)
	assert.NotNil(t, byPos)
	assert.Equal(t, "8101", byPos.TrackingStoreCode)

	missing, err := svc.Lookup(ctx, "9999")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t)

	_, err := svc.Register(ctx, "8101", "4", "Main Street", true)
	assert.NoError(t, err)

	assert.NoError(t, svc.Deactivate(ctx, "8101"))

	// Lookup no longer resolves, but the row is retained
	mapping, err := svc.Lookup(ctx, "8101")
	assert.NoError(t, err)
	assert.Nil(t, mapping)

	var count int64
	db.Model(&StoreCorrelation{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Deactivating twice is a no-op
	assert.NoError(t, svc.Deactivate(ctx, "8101"))

	// Unknown code is a validation error
	err = svc.Deactivate(ctx, "0000")
	assert.True(t, errs.IsValidation(err))
}

func TestReRegisterAfterDeactivate(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t)

	_, err := svc.Register(ctx, "8101", "4", "Main Street", true)
	assert.NoError(t, err)
	assert.NoError(t, svc.Deactivate(ctx, "8101"))

	// The tracking code can map to a new counterpart once inactive
	mapping, err := svc.Register(ctx, "8101", "5", "Main Street", true)
	assert.NoError(t, err)
	assert.Equal(t, "5", mapping.PosStoreCode)
	assert.True(t, mapping.Active)

	// The mutation history is in the audit log
	entries, err := audit.NewRecorder(db).ForRecord("store_correlations", "8101")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
}
