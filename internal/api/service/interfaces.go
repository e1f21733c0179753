package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/debtwise-ledger/internal/domain/account"
	"github.com/debtwise-ledger/internal/domain/allocation"
	"github.com/debtwise-ledger/internal/domain/business"
	"github.com/debtwise-ledger/internal/domain/ledger"
)

// AccountWithBalance pairs an account with its projected balance
type AccountWithBalance struct {
	Account *account.Account
	Balance decimal.Decimal
}

// AccountService defines the interface for account lifecycle operations
type AccountService interface {
	// CreateLoan creates a loan account and records its opening principal
	// as a charge event in the same transaction
	CreateLoan(ctx context.Context, name string, principal decimal.Decimal, interestRate *decimal.Decimal, startDate time.Time, description string) (*AccountWithBalance, error)

	// CreateCreditCard creates a credit card account with the given limit
	CreateCreditCard(ctx context.Context, name string, limit, interestRate decimal.Decimal) (*account.Account, error)

	// GetAccount retrieves an account with its projected balance
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccount(ctx context.Context, id uuid.UUID) (*AccountWithBalance, error)

	// ListAccounts retrieves all live accounts with projected balances
	ListAccounts(ctx context.Context) ([]AccountWithBalance, error)

	// DeleteAccount soft-deletes an account
	// Returns ErrBalanceOutstanding while the projected balance is nonzero
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// BalanceService defines balance projection and mutation operations.
// Every mutation locks the account row for the duration of
// read-project-append, so concurrent requests on one account serialize.
type BalanceService interface {
	// Balance projects the account's current balance from its event log
	Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)

	// Repay records a repayment, clamped at the outstanding balance so the
	// projected balance never goes negative. Returns the new balance.
	Repay(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, date time.Time, description string) (decimal.Decimal, error)

	// CorrectBalance reconciles an operator-declared balance into a signed
	// correction event. A zero delta still appends an auditable event.
	// After the call the projected balance equals the declared balance.
	CorrectBalance(ctx context.Context, accountID uuid.UUID, declared decimal.Decimal, date time.Time, reason string) (decimal.Decimal, *ledger.Event, error)

	// CardBalances projects the balance of every live credit card
	CardBalances(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)

	// ListEvents returns a page of the account's ledger in replay order,
	// plus the total event count
	ListEvents(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]ledger.Event, int64, error)
}

// LinkService records the association between a loan and the credit card the
// expense was incurred on
type LinkService interface {
	// LinkCard validates capacity and links the loan to the card, appending
	// a matching charge on the card so both balances stay consistent.
	// Returns ErrAlreadyLinked or ErrInsufficientLimit on precondition
	// failure; no partial mutation occurs.
	LinkCard(ctx context.Context, loanID, cardID uuid.UUID) (*AccountWithBalance, error)
}

// AllocationService produces the two decision-support allocations over a
// point-in-time snapshot of the credit card universe
type AllocationService interface {
	RepaymentPlan(ctx context.Context, amount decimal.Decimal) (*allocation.RepaymentPlan, error)
	PurchasePlan(ctx context.Context, amount decimal.Decimal) (*allocation.PurchasePlan, error)
}

// SnapshotLoader assembles point-in-time card snapshots for allocation
// queries
type SnapshotLoader interface {
	LoadCardSnapshots(ctx context.Context) ([]allocation.CardSnapshot, error)
}

// BusinessService defines VAT-aware business transaction operations. Derived
// fields are recomputed server-side on every write; client-supplied values
// are advisory only.
type BusinessService interface {
	CreateTransaction(ctx context.Context, tx *business.Transaction) (*business.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*business.Transaction, error)
	ListTransactions(ctx context.Context, page, perPage int) ([]*business.Transaction, int64, error)
	UpdateTransaction(ctx context.Context, tx *business.Transaction) (*business.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}
