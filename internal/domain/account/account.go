package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEmptyName          = errors.New("account name cannot be empty")
	ErrNegativeRate       = errors.New("interest rate cannot be negative")
	ErrNotALoan           = errors.New("account is not a loan")
	ErrNotACreditCard     = errors.New("account is not a credit card")
	ErrBalanceOutstanding = errors.New("account still carries a nonzero balance")
)

// Kind distinguishes the two debt account shapes
type Kind string

const (
	KindLoan       Kind = "loan"
	KindCreditCard Kind = "credit_card"
)

// Account represents a debt account: a loan with a principal, or a credit
// card with a spending limit. Balances are never stored here; they are
// projected from the account's ledger events.
type Account struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Kind             Kind             `json:"kind"`
	LimitOrPrincipal decimal.Decimal  `json:"limit_or_principal"`
	InterestRate     *decimal.Decimal `json:"interest_rate,omitempty"`
	LinkedCardID     *uuid.UUID       `json:"linked_card_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewLoan creates a loan account. The caller is responsible for recording the
// opening principal as a charge event on the new account.
func NewLoan(name string, principal decimal.Decimal, interestRate *decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if principal.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if interestRate != nil && interestRate.IsNegative() {
		return nil, ErrNegativeRate
	}

	now := time.Now()
	return &Account{
		ID:               uuid.New(),
		Name:             name,
		Kind:             KindLoan,
		LimitOrPrincipal: principal.Round(2),
		InterestRate:     interestRate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// NewCreditCard creates a credit card account with the given limit.
func NewCreditCard(name string, limit, interestRate decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if !limit.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if interestRate.IsNegative() {
		return nil, ErrNegativeRate
	}

	now := time.Now()
	rate := interestRate
	return &Account{
		ID:               uuid.New(),
		Name:             name,
		Kind:             KindCreditCard,
		LimitOrPrincipal: limit.Round(2),
		InterestRate:     &rate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// AvailableLimit returns the card's remaining spending capacity given its
// projected balance. Callers must pass a balance projected from the card's
// own event log.
func (a *Account) AvailableLimit(balance decimal.Decimal) decimal.Decimal {
	available := a.LimitOrPrincipal.Sub(balance)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// Rate returns the account's interest rate, or zero when none is stated.
func (a *Account) Rate() decimal.Decimal {
	if a.InterestRate == nil {
		return decimal.Zero
	}
	return *a.InterestRate
}
