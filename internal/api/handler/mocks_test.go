package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/debtwise-ledger/internal/api/service"
	"github.com/debtwise-ledger/internal/domain/account"
	"github.com/debtwise-ledger/internal/domain/allocation"
	"github.com/debtwise-ledger/internal/domain/business"
	"github.com/debtwise-ledger/internal/domain/ledger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateLoan(ctx context.Context, name string, principal decimal.Decimal, interestRate *decimal.Decimal, startDate time.Time, description string) (*service.AccountWithBalance, error) {
	args := m.Called(ctx, name, principal, interestRate, startDate, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AccountWithBalance), args.Error(1)
}

func (m *MockAccountService) CreateCreditCard(ctx context.Context, name string, limit, interestRate decimal.Decimal) (*account.Account, error) {
	args := m.Called(ctx, name, limit, interestRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, id uuid.UUID) (*service.AccountWithBalance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AccountWithBalance), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]service.AccountWithBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AccountWithBalance), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) Repay(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal, date time.Time, description string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, amount, date, description)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) CorrectBalance(ctx context.Context, accountID uuid.UUID, declared decimal.Decimal, date time.Time, reason string) (decimal.Decimal, *ledger.Event, error) {
	args := m.Called(ctx, accountID, declared, date, reason)
	if args.Get(1) == nil {
		return args.Get(0).(decimal.Decimal), nil, args.Error(2)
	}
	return args.Get(0).(decimal.Decimal), args.Get(1).(*ledger.Event), args.Error(2)
}

func (m *MockBalanceService) CardBalances(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockBalanceService) ListEvents(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]ledger.Event, int64, error) {
	args := m.Called(ctx, accountID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]ledger.Event), args.Get(1).(int64), args.Error(2)
}

type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) LinkCard(ctx context.Context, loanID, cardID uuid.UUID) (*service.AccountWithBalance, error) {
	args := m.Called(ctx, loanID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AccountWithBalance), args.Error(1)
}

type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) RepaymentPlan(ctx context.Context, amount decimal.Decimal) (*allocation.RepaymentPlan, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.RepaymentPlan), args.Error(1)
}

func (m *MockAllocationService) PurchasePlan(ctx context.Context, amount decimal.Decimal) (*allocation.PurchasePlan, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.PurchasePlan), args.Error(1)
}

type MockBusinessService struct {
	mock.Mock
}

func (m *MockBusinessService) CreateTransaction(ctx context.Context, tx *business.Transaction) (*business.Transaction, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Transaction), args.Error(1)
}

func (m *MockBusinessService) GetTransaction(ctx context.Context, id uuid.UUID) (*business.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Transaction), args.Error(1)
}

func (m *MockBusinessService) ListTransactions(ctx context.Context, page, perPage int) ([]*business.Transaction, int64, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*business.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockBusinessService) UpdateTransaction(ctx context.Context, tx *business.Transaction) (*business.Transaction, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Transaction), args.Error(1)
}

func (m *MockBusinessService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
