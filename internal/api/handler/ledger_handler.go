package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/debtwise-ledger/internal/api/service"
	"github.com/debtwise-ledger/internal/domain/account"
	"github.com/debtwise-ledger/internal/domain/ledger"
)

// LedgerHandler handles HTTP requests for balance projection and ledger
// mutations. The operations work on any account kind; loans and credit cards
// share one event-sourced balance model.
type LedgerHandler struct {
	balanceService service.BalanceService
	logger         *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, balanceService service.BalanceService) *LedgerHandler {
	return &LedgerHandler{
		balanceService: balanceService,
		logger:         logger,
	}
}

// Balance returns the account's projected balance
func (h *LedgerHandler) Balance(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	balance, err := h.balanceService.Balance(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to project balance")
		return
	}

	RespondOK(c, BalanceResponse{AccountID: id.String(), Balance: balance})
}

// Repay records a repayment against the account. Payments above the
// outstanding balance are clamped so the balance never goes negative.
func (h *LedgerHandler) Repay(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	var req RepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	balance, err := h.balanceService.Repay(c.Request.Context(), id, req.Amount, date, req.Description)
	if err != nil {
		if errors.Is(err, account.ErrInvalidAmount) {
			RespondBadRequest(c, "Repayment amount must be positive")
			return
		}
		h.respondError(c, err, "Failed to record repayment")
		return
	}

	RespondOK(c, BalanceResponse{AccountID: id.String(), Balance: balance})
}

// CorrectBalance reconciles the account against an operator-declared balance.
// The delta between declared and projected lands on the ledger as a
// correction event, even when it is zero.
func (h *LedgerHandler) CorrectBalance(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	var req CorrectBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	balance, event, err := h.balanceService.CorrectBalance(c.Request.Context(), id, req.DeclaredBalance, date, req.Reason)
	if err != nil {
		h.respondError(c, err, "Failed to correct balance")
		return
	}

	RespondOK(c, CorrectionResponse{
		AccountID: id.String(),
		Balance:   balance,
		Delta:     event.Amount,
		EventID:   event.ID,
	})
}

// ListEvents returns a page of the account's ledger in replay order
func (h *LedgerHandler) ListEvents(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	events, total, err := h.balanceService.ListEvents(c.Request.Context(), id, params.Page, params.PerPage)
	if err != nil {
		h.respondError(c, err, "Failed to list ledger events")
		return
	}

	responses := make([]EventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, mapEventToResponse(ev))
	}
	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// CardBalances returns every live credit card's projected balance keyed by id
func (h *LedgerHandler) CardBalances(c *gin.Context) {
	balances, err := h.balanceService.CardBalances(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to project card balances", "error", err)
		RespondInternalError(c)
		return
	}

	resume := BalancesResumeResponse{Resume: make(map[string]decimal.Decimal, len(balances))}
	for id, balance := range balances {
		resume.Resume[id.String()] = balance
	}
	RespondOK(c, resume)
}

// respondError maps service errors to HTTP responses for ledger operations
func (h *LedgerHandler) respondError(c *gin.Context, err error, logMessage string) {
	var accNotFound account.ErrAccountNotFound
	if errors.As(err, &accNotFound) {
		RespondNotFound(c, "Account not found")
		return
	}
	h.logger.Error(logMessage, "error", err)
	RespondInternalError(c)
}

// mapEventToResponse maps a ledger event to a response DTO
func mapEventToResponse(ev ledger.Event) EventResponse {
	return EventResponse{
		ID:          ev.ID,
		AccountID:   ev.AccountID.String(),
		Kind:        string(ev.Kind),
		Amount:      ev.Amount,
		OccurredAt:  ev.OccurredAt.Format(time.RFC3339),
		Description: ev.Description,
		RecordedAt:  ev.RecordedAt.Format(time.RFC3339),
	}
}
