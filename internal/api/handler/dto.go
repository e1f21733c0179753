package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts serialize as JSON numbers, matching what clients send
	decimal.MarshalJSONWithoutQuotes = true
}

// CreateLoanRequest represents a request to create a new loan account
type CreateLoanRequest struct {
	Name         string           `json:"name" binding:"required"`
	Principal    decimal.Decimal  `json:"principal"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	Description  string           `json:"description,omitempty"`
}

// CreateCreditCardRequest represents a request to create a new credit card account
type CreateCreditCardRequest struct {
	Name         string          `json:"name" binding:"required"`
	Limit        decimal.Decimal `json:"limit"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Kind             string           `json:"kind"`
	LimitOrPrincipal decimal.Decimal  `json:"limit_or_principal"`
	InterestRate     *decimal.Decimal `json:"interest_rate,omitempty"`
	LinkedCardID     string           `json:"linked_card_id,omitempty"`
	Balance          decimal.Decimal  `json:"balance"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}

// RepaymentRequest represents a request to record a repayment
type RepaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
}

// CorrectBalanceRequest represents a request to reconcile an account against
// an operator-declared balance
type CorrectBalanceRequest struct {
	DeclaredBalance decimal.Decimal `json:"declared_balance"`
	Date            *time.Time      `json:"date,omitempty"`
	Reason          string          `json:"reason,omitempty"`
}

// LinkCardRequest represents a request to link a loan to a credit card
type LinkCardRequest struct {
	CardID string `json:"card_id" binding:"required,uuid"`
}

// BalanceResponse represents a projected balance in API responses
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// CorrectionResponse represents the outcome of a balance correction
type CorrectionResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Delta     decimal.Decimal `json:"delta"`
	EventID   string          `json:"event_id"`
}

// EventResponse represents a ledger event in API responses
type EventResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  string          `json:"occurred_at"`
	Description string          `json:"description,omitempty"`
	RecordedAt  string          `json:"recorded_at"`
}

// BalancesResumeResponse represents every card's projected balance keyed by
// account id
type BalancesResumeResponse struct {
	Resume map[string]decimal.Decimal `json:"resume"`
}

// BusinessTransactionRequest represents a request to create or update a
// business transaction
type BusinessTransactionRequest struct {
	CounterpartyName     string          `json:"counterparty_name" binding:"required"`
	CounterpartyTaxID    string          `json:"counterparty_tax_id,omitempty"`
	CounterpartyCountry  string          `json:"counterparty_country,omitempty"`
	Description          string          `json:"description,omitempty"`
	Type                 string          `json:"type" binding:"required,oneof=income expense"`
	NetAmount            decimal.Decimal `json:"net_amount"`
	VatAmount            decimal.Decimal `json:"vat_amount"`
	VatExemption         bool            `json:"vat_exemption"`
	WithholdingTaxAmount decimal.Decimal `json:"withholding_tax_amount"`
	Currency             string          `json:"currency" binding:"required,len=3"`
	PaymentMethod        string          `json:"payment_method,omitempty"`
	InvoiceNumber        string          `json:"invoice_number,omitempty"`
	Date                 *time.Time      `json:"date,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
