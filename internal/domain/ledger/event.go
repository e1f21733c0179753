package ledger

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// EventKind defines the balance-affecting actions recorded in the ledger
type EventKind string

const (
	// EventKindCharge increases the account's debt
	EventKindCharge EventKind = "charge"
	// EventKindRepayment decreases the account's debt
	EventKindRepayment EventKind = "repayment"
	// EventKindCorrection applies a signed operator-declared delta
	EventKindCorrection EventKind = "correction"
)

// Event is an immutable record of a balance-affecting action. Replay order is
// (OccurredAt, ID); IDs are ULIDs, so same-day events replay in creation
// order and ties resolve deterministically.
type Event struct {
	ID          string          `json:"id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Kind        EventKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Description string          `json:"description"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewEventID returns a lexicographically sortable event identifier.
func NewEventID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewCharge creates a charge event increasing the account's debt.
func NewCharge(accountID uuid.UUID, amount decimal.Decimal, occurredAt time.Time, description string) Event {
	return newEvent(accountID, EventKindCharge, amount, occurredAt, description)
}

// NewRepayment creates a repayment event decreasing the account's debt.
func NewRepayment(accountID uuid.UUID, amount decimal.Decimal, occurredAt time.Time, description string) Event {
	return newEvent(accountID, EventKindRepayment, amount, occurredAt, description)
}

// NewCorrection creates a correction event carrying a signed delta.
func NewCorrection(accountID uuid.UUID, delta decimal.Decimal, occurredAt time.Time, description string) Event {
	return newEvent(accountID, EventKindCorrection, delta, occurredAt, description)
}

func newEvent(accountID uuid.UUID, kind EventKind, amount decimal.Decimal, occurredAt time.Time, description string) Event {
	return Event{
		ID:          NewEventID(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      amount.Round(2),
		OccurredAt:  occurredAt,
		Description: description,
		RecordedAt:  time.Now(),
	}
}
