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
	"github.com/debtwise-ledger/internal/platform/messaging/producers"
	"github.com/debtwise-ledger/internal/platform/persistence"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	pgDB     persistence.TxRunner
	accounts account.Repository
	events   ledger.Store
	cache    *cache.BalanceCache
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	logger *slog.Logger,
	pgDB persistence.TxRunner,
	accounts account.Repository,
	events ledger.Store,
	balanceCache *cache.BalanceCache,
	producer producers.MessagePublisher,
) AccountService {
	return &AccountServiceImpl{
		pgDB:     pgDB,
		accounts: accounts,
		events:   events,
		cache:    balanceCache,
		producer: producer,
		logger:   logger,
	}
}

// CreateLoan creates a loan account and records its opening principal as a
// charge event, atomically. The loan's balance starts equal to the principal
// and is thereafter derived from the event log alone.
func (s *AccountServiceImpl) CreateLoan(ctx context.Context, name string, principal decimal.Decimal, interestRate *decimal.Decimal, startDate time.Time, description string) (*AccountWithBalance, error) {
	acc, err := account.NewLoan(name, principal, interestRate)
	if err != nil {
		return nil, err
	}

	var opening *ledger.Event

	err = s.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.accounts.WithTx(tx).Create(ctx, acc); err != nil {
			return err
		}

		if acc.LimitOrPrincipal.IsPositive() {
			if description == "" {
				description = "Opening principal: " + acc.Name
			}
			ev := ledger.NewCharge(acc.ID, acc.LimitOrPrincipal, startDate, description)
			if err := s.events.WithTx(tx).Append(ctx, &ev); err != nil {
				return err
			}
			opening = &ev
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opening != nil {
		publishEvent(ctx, s.logger, s.producer, opening)
	}

	s.logger.Info("Loan created", "account_id", acc.ID.String(), "principal", acc.LimitOrPrincipal.StringFixed(2))
	return &AccountWithBalance{Account: acc, Balance: acc.LimitOrPrincipal}, nil
}

// CreateCreditCard creates a credit card account with the given limit. Cards
// open with an empty event log and therefore a zero balance.
func (s *AccountServiceImpl) CreateCreditCard(ctx context.Context, name string, limit, interestRate decimal.Decimal) (*account.Account, error) {
	acc, err := account.NewCreditCard(name, limit, interestRate)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Credit card created", "account_id", acc.ID.String(), "limit", acc.LimitOrPrincipal.StringFixed(2))
	return acc, nil
}

// GetAccount retrieves an account with its projected balance
func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*AccountWithBalance, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	balance, err := fetchBalance(ctx, s.events, s.cache, id)
	if err != nil {
		return nil, err
	}

	return &AccountWithBalance{Account: acc, Balance: balance}, nil
}

// ListAccounts retrieves all live accounts with projected balances
func (s *AccountServiceImpl) ListAccounts(ctx context.Context) ([]AccountWithBalance, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]AccountWithBalance, 0, len(accounts))
	for _, acc := range accounts {
		balance, err := fetchBalance(ctx, s.events, s.cache, acc.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, AccountWithBalance{Account: acc, Balance: balance})
	}

	return result, nil
}

// DeleteAccount soft-deletes an account. An account with a nonzero projected
// balance cannot be deleted; the debt has to be repaid or corrected away
// first.
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	err := s.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)

		if _, err := accounts.LockForUpdate(ctx, id); err != nil {
			return err
		}

		all, err := s.events.WithTx(tx).ListByAccount(ctx, id)
		if err != nil {
			return err
		}
		balance, err := ledger.Project(all)
		if err != nil {
			return err
		}
		if !balance.IsZero() {
			return account.ErrBalanceOutstanding
		}

		return accounts.SoftDelete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("Account deleted", "account_id", id.String())
	return nil
}
