package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	accountID := uuid.New()
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("EmptyLedgerProjectsToZero", func(t *testing.T) {
		balance, err := Project(nil)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("ChargesAddRepaymentsSubtract", func(t *testing.T) {
		events := []Event{
			NewCharge(accountID, decimal.NewFromInt(1000), day(1), "opening"),
			NewRepayment(accountID, decimal.NewFromInt(300), day(2), ""),
			NewCharge(accountID, decimal.NewFromFloat(49.99), day(3), "groceries"),
		}

		balance, err := Project(events)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromFloat(749.99)), "got %s", balance)
	})

	t.Run("CorrectionsApplySignedDelta", func(t *testing.T) {
		events := []Event{
			NewCharge(accountID, decimal.NewFromInt(500), day(1), ""),
			NewCorrection(accountID, decimal.NewFromInt(-120), day(2), "statement reconciliation"),
			NewCorrection(accountID, decimal.NewFromFloat(0.50), day(3), ""),
		}

		balance, err := Project(events)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromFloat(380.50)), "got %s", balance)
	})

	t.Run("InputOrderDoesNotMatter", func(t *testing.T) {
		events := []Event{
			NewCharge(accountID, decimal.NewFromInt(200), day(3), ""),
			NewRepayment(accountID, decimal.NewFromInt(150), day(2), ""),
			NewCharge(accountID, decimal.NewFromInt(400), day(1), ""),
		}
		reversed := []Event{events[2], events[1], events[0]}

		forward, err := Project(events)
		require.NoError(t, err)
		backward, err := Project(reversed)
		require.NoError(t, err)

		assert.True(t, forward.Equal(backward))
		assert.True(t, forward.Equal(decimal.NewFromInt(450)), "got %s", forward)
	})

	t.Run("ProjectionIsIdempotent", func(t *testing.T) {
		events := []Event{
			NewCharge(accountID, decimal.NewFromInt(75), day(1), ""),
			NewRepayment(accountID, decimal.NewFromInt(25), day(2), ""),
		}

		first, err := Project(events)
		require.NoError(t, err)
		second, err := Project(events)
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
	})

	t.Run("SameDayTiesResolveByEventID", func(t *testing.T) {
		// ULIDs are time-ordered, so creation order decides same-day ties
		first := NewRepayment(accountID, decimal.NewFromInt(100), day(1), "")
		second := NewCharge(accountID, decimal.NewFromInt(100), day(1), "")
		require.Less(t, first.ID, second.ID)

		balance, err := Project([]Event{second, first})
		require.NoError(t, err)
		assert.True(t, balance.IsZero(), "got %s", balance)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		events := []Event{
			NewCharge(accountID, decimal.NewFromInt(10), day(2), ""),
			NewCharge(accountID, decimal.NewFromInt(20), day(1), ""),
		}

		_, err := Project(events)
		require.NoError(t, err)
		assert.True(t, events[0].OccurredAt.After(events[1].OccurredAt))
	})

	t.Run("NegativeChargeIsRejected", func(t *testing.T) {
		bad := Event{
			ID:         NewEventID(),
			AccountID:  accountID,
			Kind:       EventKindCharge,
			Amount:     decimal.NewFromInt(-50),
			OccurredAt: day(1),
		}

		_, err := Project([]Event{bad})
		require.Error(t, err)
		var invalid ErrInvalidEvent
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, bad.ID, invalid.EventID)
	})

	t.Run("NegativeRepaymentIsRejected", func(t *testing.T) {
		bad := Event{
			ID:         NewEventID(),
			AccountID:  accountID,
			Kind:       EventKindRepayment,
			Amount:     decimal.NewFromInt(-1),
			OccurredAt: day(1),
		}

		_, err := Project([]Event{bad})
		assert.True(t, errors.Is(err, ErrInvalidEvent{}))
	})

	t.Run("UnknownKindIsRejected", func(t *testing.T) {
		bad := Event{
			ID:         NewEventID(),
			AccountID:  accountID,
			Kind:       EventKind("refund"),
			Amount:     decimal.NewFromInt(5),
			OccurredAt: day(1),
		}

		_, err := Project([]Event{bad})
		require.Error(t, err)
	})
}

func TestNewEventID(t *testing.T) {
	t.Run("MonotonicWithinProcess", func(t *testing.T) {
		prev := NewEventID()
		for i := 0; i < 100; i++ {
			next := NewEventID()
			assert.Less(t, prev, next)
			prev = next
		}
	})
}

func TestEventConstructors(t *testing.T) {
	accountID := uuid.New()
	occurred := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	t.Run("AmountsRoundToCents", func(t *testing.T) {
		ev := NewCharge(accountID, decimal.NewFromFloat(10.999), occurred, "")
		assert.True(t, ev.Amount.Equal(decimal.NewFromFloat(11.00)), "got %s", ev.Amount)
	})

	t.Run("CorrectionKeepsSign", func(t *testing.T) {
		ev := NewCorrection(accountID, decimal.NewFromFloat(-3.456), occurred, "")
		assert.Equal(t, EventKindCorrection, ev.Kind)
		assert.True(t, ev.Amount.Equal(decimal.NewFromFloat(-3.46)), "got %s", ev.Amount)
	})
}
