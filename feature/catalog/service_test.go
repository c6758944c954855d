package catalog

import (
	"context"
	"testing"

	"rental-inventory/core/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&EquipmentRecord{}))
	return NewService(db, zap.NewNop()), db
}

func TestUpsertBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("Insert Update Skip", func(t *testing.T) {
		svc, _ := setupService(t)

		batch := []UpsertInput{
			{ItemNum: "728", Name: "60in Round Table", Category: "tables", Qty: 10, Rate: decimal.NewFromFloat(12.50)},
			{ItemNum: "940", Name: "Chiavari Chair", Category: "chairs", Qty: 200, Rate: decimal.NewFromFloat(4.25)},
		}
		summary := svc.UpsertBatch(ctx, batch)
		assert.Equal(t, 2, summary.Processed)
		assert.Equal(t, 2, summary.Inserted)
		assert.Equal(t, 0, summary.Failed)

		// Replaying the identical batch changes nothing
		summary = svc.UpsertBatch(ctx, batch)
		assert.Equal(t, 2, summary.Skipped)
		assert.Equal(t, 0, summary.Inserted)
		assert.Equal(t, 0, summary.Updated)

		// A quantity change is an update
		batch[0].Qty = 12
		summary = svc.UpsertBatch(ctx, batch)
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, 1, summary.Skipped)

		record, err := svc.Get(ctx, "728")
		assert.NoError(t, err)
		assert.Equal(t, 12, record.Qty)
	})

	t.Run("Malformed Record Does Not Abort Batch", func(t *testing.T) {
		svc, _ := setupService(t)

		batch := []UpsertInput{
			{ItemNum: "", Name: "No Identity", Qty: 1},
			{ItemNum: "101", Name: "", Qty: 1},
			{ItemNum: "102", Name: "Valid Item", Qty: -1},
			{ItemNum: "103", Name: "Valid Item", Qty: 1},
		}
		summary := svc.UpsertBatch(ctx, batch)
		assert.Equal(t, 4, summary.Processed)
		assert.Equal(t, 3, summary.Failed)
		assert.Equal(t, 1, summary.Inserted)

		record, err := svc.Get(ctx, "103")
		assert.NoError(t, err)
		assert.NotNil(t, record)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	record, err := svc.Get(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, record)
}
