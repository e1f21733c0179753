package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/debtwise-ledger/internal/data/cache"
	"github.com/debtwise-ledger/internal/domain/account"
	"github.com/debtwise-ledger/internal/domain/allocation"
	"github.com/debtwise-ledger/internal/domain/ledger"
)

// PooledSnapshotLoader projects a point-in-time snapshot of every live
// credit card. Balance projections fan out over a shared worker pool so a
// large card universe does not serialize on per-account event reads.
type PooledSnapshotLoader struct {
	accounts account.Repository
	events   ledger.Store
	cache    *cache.BalanceCache
	pool     *ants.Pool
	logger   *slog.Logger
}

// NewPooledSnapshotLoader creates a snapshot loader backed by a worker pool
// of the given size
func NewPooledSnapshotLoader(
	logger *slog.Logger,
	accounts account.Repository,
	events ledger.Store,
	balanceCache *cache.BalanceCache,
	poolSize int,
) (*PooledSnapshotLoader, error) {
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot worker pool: %w", err)
	}

	return &PooledSnapshotLoader{
		accounts: accounts,
		events:   events,
		cache:    balanceCache,
		pool:     pool,
		logger:   logger,
	}, nil
}

// LoadCardSnapshots projects every live card's balance concurrently and
// returns the assembled snapshots. Any single projection failure fails the
// whole load; a partial snapshot would silently skew the allocations built
// on top of it.
func (l *PooledSnapshotLoader) LoadCardSnapshots(ctx context.Context) ([]allocation.CardSnapshot, error) {
	cards, err := l.accounts.ListByKind(ctx, account.KindCreditCard)
	if err != nil {
		return nil, err
	}

	snapshots := make([]allocation.CardSnapshot, len(cards))
	errs := make([]error, len(cards))

	var wg sync.WaitGroup
	for i, card := range cards {
		wg.Add(1)
		i, card := i, card
		submitErr := l.pool.Submit(func() {
			defer wg.Done()
			balance, err := fetchBalance(ctx, l.events, l.cache, card.ID)
			if err != nil {
				errs[i] = fmt.Errorf("failed to project balance for card %s: %w", card.ID, err)
				return
			}
			snapshots[i] = allocation.CardSnapshot{
				ID:             card.ID,
				Name:           card.Name,
				Balance:        balance,
				AvailableLimit: card.AvailableLimit(balance),
				InterestRate:   card.Rate(),
			}
		})
		if submitErr != nil {
			wg.Done()
			return nil, fmt.Errorf("failed to submit snapshot task: %w", submitErr)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

// Shutdown releases the worker pool
func (l *PooledSnapshotLoader) Shutdown() {
	l.pool.Release()
}
