package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	ListByKind(ctx context.Context, kind Kind) ([]*Account, error)

	// SetLinkedCard records the loan-to-card association and copies the
	// card's interest rate onto the loan
	SetLinkedCard(ctx context.Context, loanID, cardID uuid.UUID, rate *decimal.Decimal) error

	SoftDelete(ctx context.Context, id uuid.UUID) error

	// LockForUpdate acquires a pessimistic row lock for mutation processing
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrAlreadyLinked indicates the loan already carries a card association
type ErrAlreadyLinked struct {
	LoanID uuid.UUID
	CardID uuid.UUID
}

func (e ErrAlreadyLinked) Error() string {
	return "loan " + e.LoanID.String() + " is already linked to card " + e.CardID.String()
}

// Is implements the errors.Is interface for ErrAlreadyLinked
func (e ErrAlreadyLinked) Is(target error) bool {
	t, ok := target.(ErrAlreadyLinked)
	if !ok {
		return false
	}
	if t.LoanID == uuid.Nil {
		return true
	}
	return e.LoanID == t.LoanID
}

// ErrInsufficientLimit indicates an operation would push a card's available
// limit below zero
type ErrInsufficientLimit struct {
	CardID    uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e ErrInsufficientLimit) Error() string {
	return "insufficient limit on card " + e.CardID.String() +
		": requested " + e.Requested.StringFixed(2) +
		", available " + e.Available.StringFixed(2)
}

// Is implements the errors.Is interface for ErrInsufficientLimit
func (e ErrInsufficientLimit) Is(target error) bool {
	t, ok := target.(ErrInsufficientLimit)
	if !ok {
		return false
	}
	if t.CardID == uuid.Nil {
		return true
	}
	return e.CardID == t.CardID
}
