package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/debtwise-ledger/internal/data/cache"
	"github.com/debtwise-ledger/internal/domain/account"
	"github.com/debtwise-ledger/internal/domain/ledger"
	"github.com/debtwise-ledger/internal/obs"
	"github.com/debtwise-ledger/internal/platform/messaging/producers"
	"github.com/debtwise-ledger/internal/platform/persistence"
)

// BalanceServiceImpl implements the BalanceService interface
type BalanceServiceImpl struct {
	pgDB     persistence.TxRunner
	accounts account.Repository
	events   ledger.Store
	cache    *cache.BalanceCache
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewBalanceService creates a new balance service
func NewBalanceService(
	logger *slog.Logger,
	pgDB persistence.TxRunner,
	accounts account.Repository,
	events ledger.Store,
	balanceCache *cache.BalanceCache,
	producer producers.MessagePublisher,
) BalanceService {
	return &BalanceServiceImpl{
		pgDB:     pgDB,
		accounts: accounts,
		events:   events,
		cache:    balanceCache,
		producer: producer,
		logger:   logger,
	}
}

// fetchBalance reads a projected balance through the cache.
func fetchBalance(ctx context.Context, store ledger.Store, balanceCache *cache.BalanceCache, accountID uuid.UUID) (decimal.Decimal, error) {
	if balance, ok := balanceCache.Get(ctx, accountID); ok {
		return balance, nil
	}

	events, err := store.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := ledger.Project(events)
	if err != nil {
		return decimal.Zero, err
	}

	balanceCache.Set(ctx, accountID, balance)
	return balance, nil
}

// publishEvent streams an appended event; the producer is async and
// failures only log, they never fail the mutation that already committed.
func publishEvent(ctx context.Context, logger *slog.Logger, producer producers.MessagePublisher, ev *ledger.Event) {
	obs.EventAppended(string(ev.Kind))
	if producer == nil {
		return
	}
	if err := producer.Publish(ctx, ev.AccountID.String(), ev); err != nil {
		logger.Error("Failed to publish ledger event", "event_id", ev.ID, "error", err)
	}
}

// Balance projects the account's current balance from its event log
func (s *BalanceServiceImpl) Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	return fetchBalance(ctx, s.events, s.cache, accountID)
}

// Repay records a repayment against the account. The amount is clamped at
// the outstanding balance so repaying more than is owed settles the debt
// instead of overshooting into credit.
func (s *BalanceServiceImpl) Repay(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, date time.Time, description string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, account.ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	var appended ledger.Event

	err := s.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)
		events := s.events.WithTx(tx)

		acc, err := accounts.LockForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		all, err := events.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		balance, err := ledger.Project(all)
		if err != nil {
			return err
		}

		payment := decimal.Min(amount, balance)
		if payment.IsNegative() {
			payment = decimal.Zero
		}

		if description == "" {
			description = "Repayment: " + acc.Name
		}
		appended = ledger.NewRepayment(accountID, payment, date, description)
		if err := events.Append(ctx, &appended); err != nil {
			return err
		}

		newBalance = balance.Sub(payment)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.cache.Invalidate(ctx, accountID)
	publishEvent(ctx, s.logger, s.producer, &appended)

	s.logger.Info("Repayment recorded",
		"account_id", accountID.String(),
		"event_id", appended.ID,
		"amount", appended.Amount.StringFixed(2),
		"balance", newBalance.StringFixed(2),
	)
	return newBalance, nil
}

// CorrectBalance translates an operator-declared balance into a signed
// correction event. The delta between the declared and the projected balance
// is appended even when zero, keeping the full reconciliation audit trail.
func (s *BalanceServiceImpl) CorrectBalance(ctx context.Context, accountID uuid.UUID, declared decimal.Decimal, date time.Time, reason string) (decimal.Decimal, *ledger.Event, error) {
	declared = declared.Round(2)

	var appended ledger.Event

	err := s.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)
		events := s.events.WithTx(tx)

		if _, err := accounts.LockForUpdate(ctx, accountID); err != nil {
			return err
		}

		all, err := events.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		balance, err := ledger.Project(all)
		if err != nil {
			return err
		}

		delta := declared.Sub(balance)
		description := "Balance correction"
		if reason != "" {
			description = "Balance correction: " + reason
		}

		appended = ledger.NewCorrection(accountID, delta, date, description)
		return events.Append(ctx, &appended)
	})
	if err != nil {
		return decimal.Zero, nil, err
	}

	s.cache.Invalidate(ctx, accountID)
	publishEvent(ctx, s.logger, s.producer, &appended)

	s.logger.Info("Balance corrected",
		"account_id", accountID.String(),
		"event_id", appended.ID,
		"delta", appended.Amount.StringFixed(2),
		"balance", declared.StringFixed(2),
	)
	return declared, &appended, nil
}

// CardBalances projects the balance of every live credit card
func (s *BalanceServiceImpl) CardBalances(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	cards, err := s.accounts.ListByKind(ctx, account.KindCreditCard)
	if err != nil {
		return nil, err
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(cards))
	for _, card := range cards {
		balance, err := fetchBalance(ctx, s.events, s.cache, card.ID)
		if err != nil {
			return nil, err
		}
		balances[card.ID] = balance
	}

	return balances, nil
}

// ListEvents returns a page of the account's ledger in replay order
func (s *BalanceServiceImpl) ListEvents(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]ledger.Event, int64, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	events, err := s.events.ListByAccountPaged(ctx, accountID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.events.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
