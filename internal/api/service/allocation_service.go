package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/debtwise-ledger/internal/domain/account"
	"github.com/debtwise-ledger/internal/domain/allocation"
)

// AllocationServiceImpl implements the AllocationService interface
type AllocationServiceImpl struct {
	snapshots SnapshotLoader
	logger    *slog.Logger
}

// NewAllocationService creates a new allocation service
func NewAllocationService(logger *slog.Logger, snapshots SnapshotLoader) AllocationService {
	return &AllocationServiceImpl{
		snapshots: snapshots,
		logger:    logger,
	}
}

// RepaymentPlan allocates the given amount across indebted cards, highest
// interest rate first
func (s *AllocationServiceImpl) RepaymentPlan(ctx context.Context, amount decimal.Decimal) (*allocation.RepaymentPlan, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, account.ErrInvalidAmount
	}

	cards, err := s.snapshots.LoadCardSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	// cards with nothing outstanding contribute nothing to an avalanche
	indebted := cards[:0]
	for _, card := range cards {
		if card.Balance.GreaterThan(decimal.Zero) {
			indebted = append(indebted, card)
		}
	}

	plan := allocation.AllocateRepayment(amount, indebted)
	s.logger.Info("Repayment plan computed",
		"amount", amount.StringFixed(2),
		"cards", len(plan.Recommendations),
		"unallocated", plan.Unallocated.StringFixed(2),
	)
	return &plan, nil
}

// PurchasePlan allocates the given purchase amount across cards with spare
// limit, lowest interest rate first
func (s *AllocationServiceImpl) PurchasePlan(ctx context.Context, amount decimal.Decimal) (*allocation.PurchasePlan, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, account.ErrInvalidAmount
	}

	cards, err := s.snapshots.LoadCardSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	plan := allocation.AllocatePurchase(amount, cards)
	s.logger.Info("Purchase plan computed",
		"amount", amount.StringFixed(2),
		"possible", plan.Possible,
		"total_available", plan.TotalAvailable.StringFixed(2),
	)
	return &plan, nil
}
