package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store manages the append-only per-account event log
type Store interface {
	// Append stores a new event. Events are immutable once appended.
	Append(ctx context.Context, event *Event) error

	// ListByAccount returns all events for an account in replay order
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Event, error)

	// ListByAccountPaged returns a page of events in replay order
	ListByAccountPaged(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]Event, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	WithTx(tx pgx.Tx) Store
}

// ErrDuplicateEvent indicates event ID uniqueness violation
type ErrDuplicateEvent struct {
	EventID string
}

func (e ErrDuplicateEvent) Error() string {
	return "duplicate ledger event: " + e.EventID
}

// Is implements the errors.Is interface for ErrDuplicateEvent
func (e ErrDuplicateEvent) Is(target error) bool {
	t, ok := target.(ErrDuplicateEvent)
	if !ok {
		return false
	}
	if t.EventID == "" {
		return true
	}
	return e.EventID == t.EventID
}
