package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/debtwise-ledger/internal/data/cache"
	"github.com/debtwise-ledger/internal/domain/account"
	"github.com/debtwise-ledger/internal/domain/ledger"
	"github.com/debtwise-ledger/internal/platform/messaging/producers"
	"github.com/debtwise-ledger/internal/platform/persistence"
)

// LinkServiceImpl implements the LinkService interface
type LinkServiceImpl struct {
	pgDB     persistence.TxRunner
	accounts account.Repository
	events   ledger.Store
	cache    *cache.BalanceCache
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewLinkService creates a new loan-card link service
func NewLinkService(
	logger *slog.Logger,
	pgDB persistence.TxRunner,
	accounts account.Repository,
	events ledger.Store,
	balanceCache *cache.BalanceCache,
	producer producers.MessagePublisher,
) LinkService {
	return &LinkServiceImpl{
		pgDB:     pgDB,
		accounts: accounts,
		events:   events,
		cache:    balanceCache,
		producer: producer,
		logger:   logger,
	}
}

// LinkCard validates and records the association between a loan and the card
// the expense was incurred on. The loan's outstanding balance must fit in the
// card's available limit; on success a matching charge lands on the card so a
// linked loan and an unattributed card charge never coexist. Both account
// rows are locked for the duration, in id order to keep concurrent links
// deadlock-free.
func (s *LinkServiceImpl) LinkCard(ctx context.Context, loanID, cardID uuid.UUID) (*AccountWithBalance, error) {
	var linked AccountWithBalance
	var appended ledger.Event

	err := s.pgDB.ExecuteTx(ctx, func(tx pgx.Tx) error {
		accounts := s.accounts.WithTx(tx)
		events := s.events.WithTx(tx)

		loan, card, err := lockPair(ctx, accounts, loanID, cardID)
		if err != nil {
			return err
		}

		if loan.Kind != account.KindLoan {
			return account.ErrNotALoan
		}
		if card.Kind != account.KindCreditCard {
			return account.ErrNotACreditCard
		}
		if loan.LinkedCardID != nil {
			return account.ErrAlreadyLinked{LoanID: loan.ID, CardID: *loan.LinkedCardID}
		}

		loanEvents, err := events.ListByAccount(ctx, loanID)
		if err != nil {
			return err
		}
		principal, err := ledger.Project(loanEvents)
		if err != nil {
			return err
		}

		cardEvents, err := events.ListByAccount(ctx, cardID)
		if err != nil {
			return err
		}
		cardBalance, err := ledger.Project(cardEvents)
		if err != nil {
			return err
		}

		available := card.AvailableLimit(cardBalance)
		if principal.GreaterThan(available) {
			return account.ErrInsufficientLimit{
				CardID:    card.ID,
				Requested: principal,
				Available: available,
			}
		}

		if err := accounts.SetLinkedCard(ctx, loanID, cardID, card.InterestRate); err != nil {
			return err
		}

		appended = ledger.NewCharge(cardID, principal, time.Now(), "Linked loan: "+loan.Name)
		if err := events.Append(ctx, &appended); err != nil {
			return err
		}

		updated := *loan
		updated.LinkedCardID = &card.ID
		updated.InterestRate = card.InterestRate
		linked = AccountWithBalance{Account: &updated, Balance: principal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cardID)
	publishEvent(ctx, s.logger, s.producer, &appended)

	s.logger.Info("Loan linked to card",
		"loan_id", loanID.String(),
		"card_id", cardID.String(),
		"attributed_charge", appended.Amount.StringFixed(2),
	)
	return &linked, nil
}

// lockPair locks the loan and card rows in id order and hands them back in
// role order.
func lockPair(ctx context.Context, accounts account.Repository, loanID, cardID uuid.UUID) (loan, card *account.Account, err error) {
	first, second := loanID, cardID
	if second.String() < first.String() {
		first, second = second, first
	}

	a, err := accounts.LockForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := accounts.LockForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == loanID {
		return a, b, nil
	}
	return b, a, nil
}
