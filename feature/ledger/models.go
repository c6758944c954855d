package ledger

import (
	"time"
)

// UnitStatus is the lifecycle state of a tracked physical unit.
type UnitStatus string

const (
	StatusAvailable       UnitStatus = "Available"
	StatusOnRent          UnitStatus = "OnRent"
	StatusInService       UnitStatus = "InService"
	StatusInLaundry       UnitStatus = "InLaundry"
	StatusMissing         UnitStatus = "Missing"
	StatusMarkedForResale UnitStatus = "MarkedForResale"
	StatusSold            UnitStatus = "Sold"
)

// EventType identifies a scan or transaction event.
type EventType string

const (
	EventCheckout        EventType = "Checkout"
	EventDeliver         EventType = "Deliver"
	EventCheckin         EventType = "Checkin"
	EventPickup          EventType = "Pickup"
	EventSendToService   EventType = "SendToService"
	EventServiceComplete EventType = "ServiceComplete"
	EventSendToLaundry   EventType = "SendToLaundry"
	EventLaundryReturn   EventType = "LaundryReturn"
	EventMarkResale      EventType = "MarkResale"
	EventSale            EventType = "Sale"
)

// InventoryUnit is one physically tracked unit. TagID is never reused, and
// Status changes only through the scan event processor (MarkMissing being
// the one derived exception, still routed through this package).
type InventoryUnit struct {
	TagID             string     `gorm:"primaryKey;size:64" json:"tag_id"`
	TrackingClassID   string     `gorm:"size:64;index" json:"tracking_class_id"`
	CorrelatedItemNum *string    `gorm:"size:32;index" json:"correlated_item_num"`
	Status            UnitStatus `gorm:"size:24;not null;index" json:"status"`
	StoreCode         string     `gorm:"size:16;index" json:"store_code"`
	BinLocation       string     `gorm:"size:32" json:"bin_location"`
	Quality           string     `gorm:"size:16" json:"quality"`
	LastScanAt        time.Time  `gorm:"index" json:"last_scan_at"`
	LastEventID       uint64     `json:"last_event_id"`
	LastContractRef   string     `gorm:"size:64" json:"last_contract_ref"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName maps the model to its table.
func (InventoryUnit) TableName() string {
	return "inventory_units"
}

// EventAttributes carries the loosely-typed extras of a scan as an explicit
// structure, serialized as JSON in the event row.
type EventAttributes struct {
	StoreCode       string `json:"store_code,omitempty"`
	BinLocation     string `json:"bin_location,omitempty"`
	Quality         string `json:"quality,omitempty"`
	TrackingClassID string `json:"tracking_class_id,omitempty"`
	VendorID        string `json:"vendor_id,omitempty"`
	Note            string `json:"note,omitempty"`
}

// ScanEvent is one append-only scan/transaction event. Causal order per tag
// is (timestamp, id); AppliedAt is set once the processor has consumed it.
type ScanEvent struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TagID       string          `gorm:"size:64;index:idx_scan_tag" json:"tag_id"`
	EventType   EventType       `gorm:"size:24;not null" json:"event_type"`
	Timestamp   time.Time       `gorm:"index" json:"timestamp"`
	ContractRef string          `gorm:"size:64" json:"contract_ref"`
	Actor       string          `gorm:"size:64" json:"actor"`
	Attributes  EventAttributes `gorm:"serializer:json" json:"attributes"`
	AppliedAt   *time.Time      `gorm:"index" json:"applied_at"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TableName maps the model to its table.
func (ScanEvent) TableName() string {
	return "scan_events"
}

// AppendInput is one event in an importer batch.
type AppendInput struct {
	TagID       string          `json:"tag_id" validate:"required,max=64"`
	EventType   EventType       `json:"event_type" validate:"required"`
	Timestamp   time.Time       `json:"timestamp" validate:"required"`
	ContractRef string          `json:"contract_ref" validate:"max=64"`
	Actor       string          `json:"actor" validate:"max=64"`
	Attributes  EventAttributes `json:"attributes"`
}

// AppendSummary reports per-batch append counts.
type AppendSummary struct {
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// ApplySummary reports one processor run.
type ApplySummary struct {
	Processed  int `json:"processed"`
	Applied    int `json:"applied"`
	Discovered int `json:"discovered"`
	Stale      int `json:"stale"`
	Duplicates int `json:"duplicates"`
	Anomalies  int `json:"anomalies"`
	Rejected   int `json:"rejected"`
}
