package ledger

import (
	"rental-inventory/core/errs"
)

// Outcome is the result of evaluating one event against a unit's current
// status. Anomaly marks a transition applied from an unexpected prior state:
// physical reality wins, but the surprise is recorded.
type Outcome struct {
	Next    UnitStatus
	Anomaly bool
}

// NextStatus evaluates the transition table. A non-nil error means the event
// is rejected and the unit stays untouched; Sold is terminal.
func NextStatus(current UnitStatus, event EventType) (Outcome, error) {
	if current == StatusSold {
		return Outcome{}, &errs.ValidationError{Field: "status", Reason: errs.ReasonUnitRetired}
	}

	switch event {
	case EventCheckout, EventDeliver:
		return Outcome{Next: StatusOnRent, Anomaly: current != StatusAvailable}, nil

	case EventCheckin, EventPickup:
		return Outcome{Next: StatusAvailable, Anomaly: current != StatusOnRent}, nil

	case EventSendToService:
		return Outcome{Next: StatusInService}, nil

	case EventServiceComplete:
		return Outcome{Next: StatusAvailable, Anomaly: current != StatusInService}, nil

	case EventSendToLaundry:
		return Outcome{Next: StatusInLaundry}, nil

	case EventLaundryReturn:
		return Outcome{Next: StatusAvailable, Anomaly: current != StatusInLaundry}, nil

	case EventMarkResale:
		if current != StatusAvailable {
			return Outcome{}, &errs.ValidationError{Field: "status", Reason: "resale requires an available unit"}
		}
		return Outcome{Next: StatusMarkedForResale}, nil

	case EventSale:
		if current != StatusMarkedForResale {
			return Outcome{}, &errs.ValidationError{Field: "status", Reason: "sale requires a unit marked for resale"}
		}
		return Outcome{Next: StatusSold}, nil

	default:
		return Outcome{}, &errs.ValidationError{Field: "event_type", Reason: "unknown event type"}
	}
}

// commandEvent maps a requested target status to the event that drives it.
// The operations UI never writes status directly; its commands become scan
// events so the audit trail stays complete.
func commandEvent(target UnitStatus) (EventType, bool) {
	switch target {
	case StatusOnRent:
		return EventCheckout, true
	case StatusAvailable:
		return EventCheckin, true
	case StatusInService:
		return EventSendToService, true
	case StatusInLaundry:
		return EventSendToLaundry, true
	case StatusMarkedForResale:
		return EventMarkResale, true
	case StatusSold:
		return EventSale, true
	default:
		return "", false
	}
}
