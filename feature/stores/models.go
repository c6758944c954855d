package stores

import (
	"time"
)

// StoreCorrelation maps a tracking-system store code to a POS (catalog)
// store code. While active the mapping is bijective: one tracking code per
// POS code and vice versa.
type StoreCorrelation struct {
	TrackingStoreCode string    `gorm:"primaryKey;size:16" json:"tracking_store_code"`
	PosStoreCode      string    `gorm:"size:16;uniqueIndex" json:"pos_store_code"`
	Name              string    `gorm:"size:100" json:"name"`
	TrackingEnabled   bool      `gorm:"not null;default:true" json:"tracking_enabled"`
	Active            bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName maps the model to its table.
func (StoreCorrelation) TableName() string {
	return "store_correlations"
}
