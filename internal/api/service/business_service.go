package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/debtwise-ledger/internal/domain/business"
)

// BusinessServiceImpl implements the BusinessService interface
type BusinessServiceImpl struct {
	transactions business.Repository
	logger       *slog.Logger
}

// NewBusinessService creates a new business transaction service
func NewBusinessService(logger *slog.Logger, transactions business.Repository) BusinessService {
	return &BusinessServiceImpl{
		transactions: transactions,
		logger:       logger,
	}
}

// CreateTransaction validates the transaction, recomputes its derived VAT
// fields and persists it
func (s *BusinessServiceImpl) CreateTransaction(ctx context.Context, tx *business.Transaction) (*business.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	tx.Normalize()

	now := time.Now()
	tx.ID = uuid.New()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if tx.Date.IsZero() {
		tx.Date = now
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Business transaction created",
		"transaction_id", tx.ID.String(),
		"type", string(tx.Type),
		"gross_amount", tx.GrossAmount.StringFixed(2),
		"vat_rate", tx.VatRate.String(),
	)
	return tx, nil
}

// GetTransaction retrieves a single business transaction
func (s *BusinessServiceImpl) GetTransaction(ctx context.Context, id uuid.UUID) (*business.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

// ListTransactions returns a page of business transactions and the total
// count
func (s *BusinessServiceImpl) ListTransactions(ctx context.Context, page, perPage int) ([]*business.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	txs, err := s.transactions.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transactions.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// UpdateTransaction revalidates, renormalizes and persists the transaction
func (s *BusinessServiceImpl) UpdateTransaction(ctx context.Context, tx *business.Transaction) (*business.Transaction, error) {
	existing, err := s.transactions.GetByID(ctx, tx.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	tx.Normalize()
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = time.Now()

	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Business transaction updated", "transaction_id", tx.ID.String())
	return tx, nil
}

// DeleteTransaction soft-deletes a business transaction
func (s *BusinessServiceImpl) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := s.transactions.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Business transaction deleted", "transaction_id", id.String())
	return nil
}
