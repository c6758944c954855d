package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquipmentRecord is the canonical catalog record: one per rentable item
// type. Qty is the count of identical bulk units, or 1 for individually
// tracked items. Identity (ItemNum) is immutable for the record's lifetime.
type EquipmentRecord struct {
	ItemNum          string          `gorm:"primaryKey;size:32" json:"item_num"`
	Name             string          `gorm:"size:200;not null" json:"name"`
	Category         string          `gorm:"size:64;index" json:"category"`
	Qty              int             `gorm:"not null" json:"qty"`
	HomeStoreCode    string          `gorm:"size:16;index" json:"home_store_code"`
	CurrentStoreCode string          `gorm:"size:16;index" json:"current_store_code"`
	Rate             decimal.Decimal `gorm:"type:decimal(10,2)" json:"rate"`
	Inactive         bool            `gorm:"not null;default:false" json:"inactive"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName maps the model to its table.
func (EquipmentRecord) TableName() string {
	return "equipment_records"
}

// UpsertInput is one record in an importer batch.
type UpsertInput struct {
	ItemNum          string          `json:"item_num" validate:"required,max=32"`
	Name             string          `json:"name" validate:"required,max=200"`
	Category         string          `json:"category" validate:"max=64"`
	Qty              int             `json:"qty" validate:"gte=0"`
	HomeStoreCode    string          `json:"home_store_code" validate:"max=16"`
	CurrentStoreCode string          `json:"current_store_code" validate:"max=16"`
	Rate             decimal.Decimal `json:"rate"`
	Inactive         bool            `json:"inactive"`
}

// UpsertSummary reports per-batch counts. One malformed record never aborts
// the batch; it only increments Failed.
type UpsertSummary struct {
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
