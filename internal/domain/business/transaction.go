package business

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyCounterparty   = errors.New("counterparty name cannot be empty")
	ErrInvalidType         = errors.New("transaction type must be income or expense")
	ErrNonPositiveNet      = errors.New("net amount must be positive")
	ErrNegativeVat         = errors.New("vat amount cannot be negative")
	ErrNegativeWithholding = errors.New("withholding tax amount cannot be negative")
)

// Type defines the business transaction direction
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Transaction is a VAT-aware business transaction. GrossAmount and VatRate
// are derived; they are recomputed on every write so stored records are
// always self-consistent, regardless of what the client sent.
type Transaction struct {
	ID                   uuid.UUID       `json:"id" bson:"_id"`
	CounterpartyName     string          `json:"counterparty_name" bson:"counterparty_name"`
	CounterpartyTaxID    string          `json:"counterparty_tax_id" bson:"counterparty_tax_id"`
	CounterpartyCountry  string          `json:"counterparty_country" bson:"counterparty_country"`
	Description          string          `json:"description,omitempty" bson:"description,omitempty"`
	Type                 Type            `json:"type" bson:"type"`
	NetAmount            decimal.Decimal `json:"net_amount" bson:"net_amount"`
	VatAmount            decimal.Decimal `json:"vat_amount" bson:"vat_amount"`
	VatRate              decimal.Decimal `json:"vat_rate" bson:"vat_rate"`
	VatExemption         bool            `json:"vat_exemption" bson:"vat_exemption"`
	WithholdingTaxAmount decimal.Decimal `json:"withholding_tax_amount" bson:"withholding_tax_amount"`
	GrossAmount          decimal.Decimal `json:"gross_amount" bson:"gross_amount"`
	Currency             string          `json:"currency" bson:"currency"`
	PaymentMethod        string          `json:"payment_method" bson:"payment_method"`
	InvoiceNumber        string          `json:"invoice_number,omitempty" bson:"invoice_number,omitempty"`
	Date                 time.Time       `json:"date" bson:"date"`
	CreatedAt            time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at" bson:"updated_at"`
}

// Validate checks the caller-supplied fields before normalization.
func (t *Transaction) Validate() error {
	if t.CounterpartyName == "" {
		return ErrEmptyCounterparty
	}
	if t.Type != TypeIncome && t.Type != TypeExpense {
		return ErrInvalidType
	}
	if !t.NetAmount.IsPositive() {
		return ErrNonPositiveNet
	}
	if t.VatAmount.IsNegative() {
		return ErrNegativeVat
	}
	if t.WithholdingTaxAmount.IsNegative() {
		return ErrNegativeWithholding
	}
	return nil
}

// Normalize recomputes the derived VAT fields from the authoritative inputs.
// Exemption is only meaningful for income; expenses always keep their VAT.
func (t *Transaction) Normalize() {
	t.NetAmount = t.NetAmount.Round(2)
	if t.Type != TypeIncome {
		t.VatExemption = false
	}

	breakdown := ComputeVat(t.NetAmount, t.VatAmount, t.Type, t.VatExemption)
	t.VatAmount = breakdown.VatAmount
	t.VatRate = breakdown.VatRate
	t.GrossAmount = breakdown.GrossAmount
	t.WithholdingTaxAmount = t.WithholdingTaxAmount.Round(2)
}
