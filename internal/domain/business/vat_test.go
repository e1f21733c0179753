package business

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeVat(t *testing.T) {
	t.Run("GrossIsNetPlusVat", func(t *testing.T) {
		got := ComputeVat(decimal.NewFromInt(100), decimal.NewFromInt(23), TypeExpense, false)

		assert.True(t, got.GrossAmount.Equal(decimal.NewFromInt(123)), "got %s", got.GrossAmount)
		assert.True(t, got.VatAmount.Equal(decimal.NewFromInt(23)))
		assert.True(t, got.VatRate.Equal(decimal.NewFromInt(23)), "got %s", got.VatRate)
	})

	t.Run("RateRoundsToNearestInteger", func(t *testing.T) {
		// 8.10 / 101.30 = 7.996% -> 8
		got := ComputeVat(decimal.NewFromFloat(101.30), decimal.NewFromFloat(8.10), TypeExpense, false)
		assert.True(t, got.VatRate.Equal(decimal.NewFromInt(8)), "got %s", got.VatRate)
	})

	t.Run("GrossRoundsToCents", func(t *testing.T) {
		got := ComputeVat(decimal.NewFromFloat(10.555), decimal.NewFromFloat(1.111), TypeIncome, false)
		assert.True(t, got.GrossAmount.Equal(decimal.NewFromFloat(11.67)), "got %s", got.GrossAmount)
	})

	t.Run("ZeroVatMeansZeroRate", func(t *testing.T) {
		got := ComputeVat(decimal.NewFromInt(250), decimal.Zero, TypeExpense, false)

		assert.True(t, got.VatRate.IsZero())
		assert.True(t, got.GrossAmount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("ExemptIncomeOverridesSuppliedVat", func(t *testing.T) {
		got := ComputeVat(decimal.NewFromInt(100), decimal.NewFromInt(23), TypeIncome, true)

		assert.True(t, got.VatAmount.IsZero())
		assert.True(t, got.VatRate.IsZero())
		assert.True(t, got.GrossAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("ExemptionIgnoredForExpenses", func(t *testing.T) {
		got := ComputeVat(decimal.NewFromInt(100), decimal.NewFromInt(19), TypeExpense, true)

		assert.True(t, got.VatAmount.Equal(decimal.NewFromInt(19)))
		assert.True(t, got.GrossAmount.Equal(decimal.NewFromInt(119)))
	})
}

func TestTransactionNormalize(t *testing.T) {
	t.Run("DerivedFieldsRecomputed", func(t *testing.T) {
		tx := &Transaction{
			CounterpartyName: "Acme GmbH",
			Type:             TypeExpense,
			NetAmount:        decimal.NewFromInt(200),
			VatAmount:        decimal.NewFromInt(38),
			// client-supplied garbage that must be overwritten
			GrossAmount: decimal.NewFromInt(1),
			VatRate:     decimal.NewFromInt(99),
		}

		tx.Normalize()

		assert.True(t, tx.GrossAmount.Equal(decimal.NewFromInt(238)))
		assert.True(t, tx.VatRate.Equal(decimal.NewFromInt(19)))
	})

	t.Run("ExemptionClearedForExpense", func(t *testing.T) {
		tx := &Transaction{
			CounterpartyName: "Acme GmbH",
			Type:             TypeExpense,
			NetAmount:        decimal.NewFromInt(100),
			VatAmount:        decimal.NewFromInt(23),
			VatExemption:     true,
		}

		tx.Normalize()

		assert.False(t, tx.VatExemption)
		assert.True(t, tx.GrossAmount.Equal(decimal.NewFromInt(123)))
	})

	t.Run("ExemptIncomeStoredWithoutVat", func(t *testing.T) {
		tx := &Transaction{
			CounterpartyName: "Freelance client",
			Type:             TypeIncome,
			NetAmount:        decimal.NewFromInt(5000),
			VatAmount:        decimal.NewFromInt(1150),
			VatExemption:     true,
		}

		tx.Normalize()

		assert.True(t, tx.VatExemption)
		assert.True(t, tx.VatAmount.IsZero())
		assert.True(t, tx.VatRate.IsZero())
		assert.True(t, tx.GrossAmount.Equal(decimal.NewFromInt(5000)))
	})
}

func TestTransactionValidate(t *testing.T) {
	valid := func() *Transaction {
		return &Transaction{
			CounterpartyName: "Acme GmbH",
			Type:             TypeExpense,
			NetAmount:        decimal.NewFromInt(100),
			VatAmount:        decimal.NewFromInt(19),
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("EmptyCounterparty", func(t *testing.T) {
		tx := valid()
		tx.CounterpartyName = ""
		assert.ErrorIs(t, tx.Validate(), ErrEmptyCounterparty)
	})

	t.Run("UnknownType", func(t *testing.T) {
		tx := valid()
		tx.Type = "transfer"
		assert.ErrorIs(t, tx.Validate(), ErrInvalidType)
	})

	t.Run("NonPositiveNet", func(t *testing.T) {
		tx := valid()
		tx.NetAmount = decimal.Zero
		assert.ErrorIs(t, tx.Validate(), ErrNonPositiveNet)
	})

	t.Run("NegativeVat", func(t *testing.T) {
		tx := valid()
		tx.VatAmount = decimal.NewFromInt(-1)
		assert.ErrorIs(t, tx.Validate(), ErrNegativeVat)
	})
}
