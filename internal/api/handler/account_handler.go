package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/debtwise-ledger/internal/api/service"
	"github.com/debtwise-ledger/internal/domain/account"
)

// AccountHandler handles HTTP requests for account lifecycle operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// CreateLoan handles creation of a new loan account. The opening principal is
// recorded on the loan's ledger in the same transaction.
func (h *AccountHandler) CreateLoan(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	startDate := time.Now()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	acc, err := h.accountService.CreateLoan(c.Request.Context(), req.Name, req.Principal, req.InterestRate, startDate, req.Description)
	if err != nil {
		if errors.Is(err, account.ErrInvalidAmount) || errors.Is(err, account.ErrEmptyName) || errors.Is(err, account.ErrNegativeRate) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create loan", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc.Account, acc.Balance))
}

// CreateCreditCard handles creation of a new credit card account
func (h *AccountHandler) CreateCreditCard(c *gin.Context) {
	var req CreateCreditCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateCreditCard(c.Request.Context(), req.Name, req.Limit, req.InterestRate)
	if err != nil {
		if errors.Is(err, account.ErrInvalidAmount) || errors.Is(err, account.ErrEmptyName) || errors.Is(err, account.ErrNegativeRate) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create credit card", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc, decimal.Zero))
}

// GetByID retrieves an account with its projected balance, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		if errors.As(err, &accNotFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc.Account, acc.Balance))
}

// List retrieves every live account with its projected balance
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc.Account, acc.Balance))
	}
	RespondOK(c, responses)
}

// Delete soft-deletes an account. Accounts still carrying debt cannot be
// deleted.
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		var accNotFound account.ErrAccountNotFound
		switch {
		case errors.As(err, &accNotFound):
			RespondNotFound(c, "Account not found")
		case errors.Is(err, account.ErrBalanceOutstanding):
			RespondConflict(c, "Account still carries a nonzero balance")
		default:
			h.logger.Error("Failed to delete account", "id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondNoContent(c)
}

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}

// mapAccountToResponse maps an account entity and its balance to a response DTO
func mapAccountToResponse(acc *account.Account, balance decimal.Decimal) AccountResponse {
	resp := AccountResponse{
		ID:               acc.ID.String(),
		Name:             acc.Name,
		Kind:             string(acc.Kind),
		LimitOrPrincipal: acc.LimitOrPrincipal,
		InterestRate:     acc.InterestRate,
		Balance:          balance,
		CreatedAt:        acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        acc.UpdatedAt.Format(time.RFC3339),
	}
	if acc.LinkedCardID != nil {
		resp.LinkedCardID = acc.LinkedCardID.String()
	}
	return resp
}
