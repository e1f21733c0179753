package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debtwise-ledger/internal/domain/account"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func accountRows(accounts ...*account.Account) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "kind", "limit_or_principal", "interest_rate", "linked_card_id", "created_at", "updated_at"})
	for _, acc := range accounts {
		rows.AddRow(acc.ID, acc.Name, string(acc.Kind), acc.LimitOrPrincipal, acc.InterestRate, acc.LinkedCardID, acc.CreatedAt, acc.UpdatedAt)
	}
	return rows
}

func testCreditCard() *account.Account {
	rate := decimal.NewFromFloat(19.9)
	now := time.Now()
	return &account.Account{
		ID:               uuid.New(),
		Name:             "Visa",
		Kind:             account.KindCreditCard,
		LimitOrPrincipal: decimal.NewFromInt(3000),
		InterestRate:     &rate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestAccountRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := testCreditCard()

	query := `
		INSERT INTO accounts \(id, name, kind, limit_or_principal, interest_rate, linked_card_id, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Name, string(acc.Kind), acc.LimitOrPrincipal, acc.InterestRate, acc.LinkedCardID, acc.CreatedAt, acc.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.ID, acc.Name, string(acc.Kind), acc.LimitOrPrincipal, acc.InterestRate, acc.LinkedCardID, acc.CreatedAt, acc.UpdatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, acc)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create account")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := testCreditCard()

	query := `
		SELECT id, name, kind, limit_or_principal, interest_rate, linked_card_id, created_at, updated_at
		FROM accounts
		WHERE id = \$1 AND deleted_at IS NULL
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(acc.ID).
			WillReturnRows(accountRows(acc))

		got, err := repo.GetByID(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
		assert.Equal(t, account.KindCreditCard, got.Kind)
		assert.True(t, got.LimitOrPrincipal.Equal(acc.LimitOrPrincipal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(acc.ID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, acc.ID)
		var notFound account.ErrAccountNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, acc.ID, notFound.AccountID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_ListByKind(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	cardA := testCreditCard()
	cardB := testCreditCard()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT.+FROM accounts.+WHERE kind = \$1 AND deleted_at IS NULL`).
			WithArgs(string(account.KindCreditCard)).
			WillReturnRows(accountRows(cardA, cardB))

		got, err := repo.ListByKind(ctx, account.KindCreditCard)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, cardA.ID, got[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT.+FROM accounts.+WHERE kind = \$1 AND deleted_at IS NULL`).
			WithArgs(string(account.KindLoan)).
			WillReturnRows(accountRows())

		got, err := repo.ListByKind(ctx, account.KindLoan)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_SetLinkedCard(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	loanID := uuid.New()
	cardID := uuid.New()
	rate := decimal.NewFromFloat(19.9)

	query := `
		UPDATE accounts
		SET linked_card_id = \$1, interest_rate = \$2, updated_at = NOW\(\)
		WHERE id = \$3 AND deleted_at IS NULL
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(cardID, &rate, loanID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.SetLinkedCard(ctx, loanID, cardID, &rate)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("loan missing", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(cardID, &rate, loanID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SetLinkedCard(ctx, loanID, cardID, &rate)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	id := uuid.New()

	query := `
		UPDATE accounts
		SET deleted_at = NOW\(\), updated_at = NOW\(\)
		WHERE id = \$1 AND deleted_at IS NULL
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.SoftDelete(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already deleted", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.SoftDelete(ctx, id), account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &AccountRepository{querier: mock, logger: newTestLogger()}
	acc := testCreditCard()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT.+FROM accounts.+WHERE id = \$1 AND deleted_at IS NULL.+FOR UPDATE`).
			WithArgs(acc.ID).
			WillReturnRows(accountRows(acc))

		got, err := repo.LockForUpdate(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, acc.ID, got.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`(?s)SELECT.+FOR UPDATE`).
			WithArgs(acc.ID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.LockForUpdate(ctx, acc.ID)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
