package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ErrInvalidEvent indicates a malformed ledger event
type ErrInvalidEvent struct {
	EventID string
	Reason  string
}

func (e ErrInvalidEvent) Error() string {
	return "invalid ledger event " + e.EventID + ": " + e.Reason
}

// Is implements the errors.Is interface for ErrInvalidEvent
func (e ErrInvalidEvent) Is(target error) bool {
	t, ok := target.(ErrInvalidEvent)
	if !ok {
		return false
	}
	if t.EventID == "" {
		return true
	}
	return e.EventID == t.EventID
}

// Project folds an event sequence into the account's current balance:
// charges add, repayments subtract, corrections apply their signed delta.
// The fold is pure and idempotent; input order does not matter because
// events are replayed in (OccurredAt, ID) order. Charge and repayment
// events with negative amounts are malformed and abort the projection.
func Project(events []Event) (decimal.Decimal, error) {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].OccurredAt.Equal(ordered[j].OccurredAt) {
			return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	balance := decimal.Zero
	for _, ev := range ordered {
		switch ev.Kind {
		case EventKindCharge:
			if ev.Amount.IsNegative() {
				return decimal.Zero, ErrInvalidEvent{EventID: ev.ID, Reason: "charge amount is negative"}
			}
			balance = balance.Add(ev.Amount)
		case EventKindRepayment:
			if ev.Amount.IsNegative() {
				return decimal.Zero, ErrInvalidEvent{EventID: ev.ID, Reason: "repayment amount is negative"}
			}
			balance = balance.Sub(ev.Amount)
		case EventKindCorrection:
			balance = balance.Add(ev.Amount)
		default:
			return decimal.Zero, ErrInvalidEvent{EventID: ev.ID, Reason: "unknown event kind " + string(ev.Kind)}
		}
	}

	return balance, nil
}
