package ledger

import (
	"testing"

	"rental-inventory/core/errs"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name        string
		current     UnitStatus
		event       EventType
		wantNext    UnitStatus
		wantAnomaly bool
		wantErr     bool
	}{
		{"checkout from available", StatusAvailable, EventCheckout, StatusOnRent, false, false},
		{"deliver from available", StatusAvailable, EventDeliver, StatusOnRent, false, false},
		{"checkout from service is anomalous but applied", StatusInService, EventCheckout, StatusOnRent, true, false},
		{"checkout from missing is anomalous but applied", StatusMissing, EventCheckout, StatusOnRent, true, false},
		{"checkin from on rent", StatusOnRent, EventCheckin, StatusAvailable, false, false},
		{"pickup from on rent", StatusOnRent, EventPickup, StatusAvailable, false, false},
		{"checkin from service is anomalous but applied", StatusInService, EventCheckin, StatusAvailable, true, false},
		{"send to service from available", StatusAvailable, EventSendToService, StatusInService, false, false},
		{"send to service from on rent", StatusOnRent, EventSendToService, StatusInService, false, false},
		{"service complete", StatusInService, EventServiceComplete, StatusAvailable, false, false},
		{"service complete from laundry is anomalous", StatusInLaundry, EventServiceComplete, StatusAvailable, true, false},
		{"send to laundry", StatusOnRent, EventSendToLaundry, StatusInLaundry, false, false},
		{"laundry return", StatusInLaundry, EventLaundryReturn, StatusAvailable, false, false},
		{"mark resale from available", StatusAvailable, EventMarkResale, StatusMarkedForResale, false, false},
		{"mark resale from on rent is rejected", StatusOnRent, EventMarkResale, "", false, true},
		{"sale from marked for resale", StatusMarkedForResale, EventSale, StatusSold, false, false},
		{"sale from available is rejected", StatusAvailable, EventSale, "", false, true},
		{"unknown event is rejected", StatusAvailable, EventType("Teleport"), "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := NextStatus(tt.current, tt.event)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errs.IsValidation(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantNext, outcome.Next)
			assert.Equal(t, tt.wantAnomaly, outcome.Anomaly)
		})
	}
}

func TestNextStatus_SoldIsTerminal(t *testing.T) {
	for _, event := range []EventType{
		EventCheckout, EventDeliver, EventCheckin, EventPickup,
		EventSendToService, EventServiceComplete, EventSendToLaundry,
		EventLaundryReturn, EventMarkResale, EventSale,
	} {
		_, err := NextStatus(StatusSold, event)
		assert.Error(t, err, "event %s must not leave Sold", event)
	}
}

func TestCommandEvent(t *testing.T) {
	event, ok := commandEvent(StatusOnRent)
	assert.True(t, ok)
	assert.Equal(t, EventCheckout, event)

	event, ok = commandEvent(StatusInService)
	assert.True(t, ok)
	assert.Equal(t, EventSendToService, event)

	_, ok = commandEvent(StatusMissing)
	assert.False(t, ok)
}
