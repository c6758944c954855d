package inventory

import (
	"math"

	"rental-inventory/core/rules"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/correlation"
	"rental-inventory/feature/ledger"

	"github.com/shopspring/decimal"
)

// ItemStatus is the derived availability state of a catalog item.
type ItemStatus string

const (
	ItemInactive        ItemStatus = "Inactive"
	ItemMaintenance     ItemStatus = "Maintenance"
	ItemFullyRented     ItemStatus = "FullyRented"
	ItemPartiallyRented ItemStatus = "PartiallyRented"
	ItemAvailable       ItemStatus = "Available"
)

// DataQualityFlag grades how much the correlation behind a row can be
// trusted. Exactly one flag applies; the precedence is worst first.
type DataQualityFlag string

const (
	QualityNoCorrelation    DataQualityFlag = "NoCorrelation"
	QualityQuantityMismatch DataQualityFlag = "QuantityMismatch"
	QualityLowConfidence    DataQualityFlag = "LowConfidence"
	QualityGood             DataQualityFlag = "GoodQuality"
)

// CombinedInventoryRow is the derived per-item availability summary. It is
// never authoritative: every field is recomputable from the catalog, the
// correlation set and the unit ledger.
type CombinedInventoryRow struct {
	ItemNum         string          `json:"item_num"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	StoreCode       string          `json:"store_code"`
	Qty             int             `json:"qty"`
	Rate            decimal.Decimal `json:"rate"`
	AvailableCount  int             `json:"available_count"`
	OnRentCount     int             `json:"on_rent_count"`
	ServiceCount    int             `json:"service_count"`
	UtilizationPct  float64         `json:"utilization_pct"`
	Status          ItemStatus      `json:"status"`
	DataQualityFlag DataQualityFlag `json:"data_quality_flag"`
	ConfidenceScore float64         `json:"confidence_score"`
}

// Project derives one combined inventory row. Pure and idempotent: the same
// snapshot always projects the same row. Sold units never reach any bucket;
// Missing units count against availability but are neither rented nor in
// service.
func Project(record catalog.EquipmentRecord, corr *correlation.EquipmentCorrelation, units []ledger.InventoryUnit, ruleSet rules.Config) CombinedInventoryRow {
	row := CombinedInventoryRow{
		ItemNum:   record.ItemNum,
		Name:      record.Name,
		Category:  record.Category,
		StoreCode: record.CurrentStoreCode,
		Qty:       record.Qty,
		Rate:      record.Rate,
	}

	inService := false
	missing := 0
	for _, unit := range units {
		switch unit.Status {
		case ledger.StatusOnRent:
			row.OnRentCount++
		case ledger.StatusInService:
			row.ServiceCount++
			inService = true
		case ledger.StatusInLaundry:
			row.ServiceCount++
		case ledger.StatusMissing:
			missing++
		}
	}

	// Units out on rent, in service or missing are not available, so the
	// counts always conserve: available + onRent + service <= qty.
	row.AvailableCount = record.Qty - row.OnRentCount - row.ServiceCount - missing
	if row.AvailableCount < 0 {
		row.AvailableCount = 0
	}

	qty := record.Qty
	if qty < 1 {
		qty = 1
	}
	row.UtilizationPct = math.Round(float64(row.OnRentCount)/float64(qty)*1000) / 10
	if row.UtilizationPct > 100 {
		row.UtilizationPct = 100
	}

	switch {
	case record.Inactive:
		row.Status = ItemInactive
	case inService:
		row.Status = ItemMaintenance
	case record.Qty > 0 && row.OnRentCount >= record.Qty:
		row.Status = ItemFullyRented
	case row.OnRentCount > 0:
		row.Status = ItemPartiallyRented
	default:
		row.Status = ItemAvailable
	}

	switch {
	case corr == nil:
		row.DataQualityFlag = QualityNoCorrelation
	case corr.QuantityDifference > ruleSet.QuantityTolerance:
		row.DataQualityFlag = QualityQuantityMismatch
		row.ConfidenceScore = corr.ConfidenceScore
	case corr.ConfidenceScore < ruleSet.LowConfidenceFloor:
		row.DataQualityFlag = QualityLowConfidence
		row.ConfidenceScore = corr.ConfidenceScore
	default:
		row.DataQualityFlag = QualityGood
		row.ConfidenceScore = corr.ConfidenceScore
	}

	return row
}
