package inventory

import (
	"testing"

	"rental-inventory/core/rules"

	"rental-inventory/feature/catalog"
	"rental-inventory/feature/correlation"
	"rental-inventory/feature/ledger"

	"github.com/stretchr/testify/assert"
)

func unitsWith(statuses ...ledger.UnitStatus) []ledger.InventoryUnit {
	units := make([]ledger.InventoryUnit, len(statuses))
	for i, status := range statuses {
		units[i] = ledger.InventoryUnit{TagID: string(rune('A' + i)), Status: status}
	}
	return units
}

func goodCorrelation() *correlation.EquipmentCorrelation {
	return &correlation.EquipmentCorrelation{ConfidenceScore: 1.0, QuantityDifference: 0}
}

func TestProject_PartiallyRented(t *testing.T) {
	record := catalog.EquipmentRecord{ItemNum: "728", Name: "60in Round Table", Qty: 10}
	units := unitsWith(
		ledger.StatusOnRent, ledger.StatusOnRent, ledger.StatusOnRent, ledger.StatusOnRent,
		ledger.StatusOnRent, ledger.StatusOnRent, ledger.StatusOnRent,
		ledger.StatusAvailable, ledger.StatusAvailable, ledger.StatusAvailable,
	)

	row := Project(record, goodCorrelation(), units, rules.Default())
	assert.Equal(t, 3, row.AvailableCount)
	assert.Equal(t, 7, row.OnRentCount)
	assert.Equal(t, 0, row.ServiceCount)
	assert.Equal(t, 70.0, row.UtilizationPct)
	assert.Equal(t, ItemPartiallyRented, row.Status)
	assert.Equal(t, QualityGood, row.DataQualityFlag)
}

func TestProject_CountsConserve(t *testing.T) {
	ruleSet := rules.Default()
	cases := []struct {
		name  string
		qty   int
		units []ledger.InventoryUnit
	}{
		{"no units", 5, nil},
		{"over rented", 2, unitsWith(ledger.StatusOnRent, ledger.StatusOnRent, ledger.StatusOnRent)},
		{"mixed", 6, unitsWith(ledger.StatusOnRent, ledger.StatusInService, ledger.StatusInLaundry, ledger.StatusAvailable)},
		{"zero qty", 0, unitsWith(ledger.StatusOnRent)},
		{"missing unavailable", 4, unitsWith(ledger.StatusMissing, ledger.StatusOnRent)},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			record := catalog.EquipmentRecord{ItemNum: "1", Qty: tt.qty}
			row := Project(record, goodCorrelation(), tt.units, ruleSet)

			// Conservation: the buckets never claim more units than the
			// catalog owns, unless the observation itself already exceeds it.
			if row.OnRentCount+row.ServiceCount <= tt.qty {
				assert.LessOrEqual(t, row.AvailableCount+row.OnRentCount+row.ServiceCount, tt.qty)
			} else {
				assert.Equal(t, 0, row.AvailableCount)
			}
			if tt.qty > 0 {
				assert.GreaterOrEqual(t, row.UtilizationPct, 0.0)
				assert.LessOrEqual(t, row.UtilizationPct, 100.0)
			}
			assert.GreaterOrEqual(t, row.AvailableCount, 0)
		})
	}
}

func TestProject_MissingUnitsReduceAvailability(t *testing.T) {
	record := catalog.EquipmentRecord{ItemNum: "1", Qty: 2}
	units := unitsWith(ledger.StatusMissing, ledger.StatusMissing)

	row := Project(record, goodCorrelation(), units, rules.Default())
	assert.Equal(t, 0, row.AvailableCount)
	assert.Equal(t, 0, row.OnRentCount)
	assert.Equal(t, 0, row.ServiceCount)
}

func TestProject_ServiceCountsAgainstAvailability(t *testing.T) {
	record := catalog.EquipmentRecord{ItemNum: "1", Qty: 6}
	units := unitsWith(ledger.StatusOnRent, ledger.StatusInService, ledger.StatusInLaundry)

	row := Project(record, goodCorrelation(), units, rules.Default())
	assert.Equal(t, 1, row.OnRentCount)
	assert.Equal(t, 2, row.ServiceCount)
	assert.Equal(t, 3, row.AvailableCount)
	assert.Equal(t, 6, row.AvailableCount+row.OnRentCount+row.ServiceCount)
}

func TestProject_StatusPrecedence(t *testing.T) {
	ruleSet := rules.Default()

	// Inactive beats everything
	row := Project(catalog.EquipmentRecord{Qty: 2, Inactive: true}, goodCorrelation(),
		unitsWith(ledger.StatusOnRent, ledger.StatusInService), ruleSet)
	assert.Equal(t, ItemInactive, row.Status)

	// Any unit in service beats rental states
	row = Project(catalog.EquipmentRecord{Qty: 2}, goodCorrelation(),
		unitsWith(ledger.StatusOnRent, ledger.StatusInService), ruleSet)
	assert.Equal(t, ItemMaintenance, row.Status)

	// Laundry counts as service time but does not force Maintenance
	row = Project(catalog.EquipmentRecord{Qty: 3}, goodCorrelation(),
		unitsWith(ledger.StatusOnRent, ledger.StatusInLaundry), ruleSet)
	assert.Equal(t, ItemPartiallyRented, row.Status)

	row = Project(catalog.EquipmentRecord{Qty: 2}, goodCorrelation(),
		unitsWith(ledger.StatusOnRent, ledger.StatusOnRent), ruleSet)
	assert.Equal(t, ItemFullyRented, row.Status)

	row = Project(catalog.EquipmentRecord{Qty: 2}, goodCorrelation(), nil, ruleSet)
	assert.Equal(t, ItemAvailable, row.Status)
}

func TestProject_DataQualityPrecedence(t *testing.T) {
	record := catalog.EquipmentRecord{ItemNum: "1", Qty: 5}
	ruleSet := rules.Default()

	row := Project(record, nil, nil, ruleSet)
	assert.Equal(t, QualityNoCorrelation, row.DataQualityFlag)

	// A large quantity gap outranks confidence, even perfect confidence
	row = Project(record, &correlation.EquipmentCorrelation{ConfidenceScore: 1.0, QuantityDifference: 3}, nil, ruleSet)
	assert.Equal(t, QualityQuantityMismatch, row.DataQualityFlag)

	row = Project(record, &correlation.EquipmentCorrelation{ConfidenceScore: 0.7, QuantityDifference: 1}, nil, ruleSet)
	assert.Equal(t, QualityLowConfidence, row.DataQualityFlag)

	row = Project(record, &correlation.EquipmentCorrelation{ConfidenceScore: 0.9, QuantityDifference: 2}, nil, ruleSet)
	assert.Equal(t, QualityGood, row.DataQualityFlag)
}

func TestProject_SoldUnitsNeverCounted(t *testing.T) {
	record := catalog.EquipmentRecord{ItemNum: "1", Qty: 3}
	units := unitsWith(ledger.StatusSold, ledger.StatusSold, ledger.StatusOnRent)

	row := Project(record, goodCorrelation(), units, rules.Default())
	assert.Equal(t, 1, row.OnRentCount)
	assert.Equal(t, 0, row.ServiceCount)
	assert.Equal(t, 2, row.AvailableCount)
}
