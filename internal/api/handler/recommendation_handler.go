package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/debtwise-ledger/internal/api/service"
	"github.com/debtwise-ledger/internal/domain/account"
)

// RecommendationHandler handles HTTP requests for allocation recommendations
type RecommendationHandler struct {
	allocationService service.AllocationService
	logger            *slog.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(logger *slog.Logger, allocationService service.AllocationService) *RecommendationHandler {
	return &RecommendationHandler{
		allocationService: allocationService,
		logger:            logger,
	}
}

// Repayment returns the avalanche split of the given amount across indebted
// cards
func (h *RecommendationHandler) Repayment(c *gin.Context) {
	amount, ok := h.parseAmount(c)
	if !ok {
		return
	}

	plan, err := h.allocationService.RepaymentPlan(c.Request.Context(), amount)
	if err != nil {
		if errors.Is(err, account.ErrInvalidAmount) {
			RespondBadRequest(c, "Amount must be positive")
			return
		}
		h.logger.Error("Failed to compute repayment plan", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, plan)
}

// Purchase returns the cheapest-first funding split of the given purchase
// amount across cards with spare limit
func (h *RecommendationHandler) Purchase(c *gin.Context) {
	amount, ok := h.parseAmount(c)
	if !ok {
		return
	}

	plan, err := h.allocationService.PurchasePlan(c.Request.Context(), amount)
	if err != nil {
		if errors.Is(err, account.ErrInvalidAmount) {
			RespondBadRequest(c, "Amount must be positive")
			return
		}
		h.logger.Error("Failed to compute purchase plan", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, plan)
}

// parseAmount parses the required amount query parameter
func (h *RecommendationHandler) parseAmount(c *gin.Context) (decimal.Decimal, bool) {
	raw := c.Query("amount")
	if raw == "" {
		RespondBadRequest(c, "Query parameter amount is required")
		return decimal.Zero, false
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		RespondBadRequest(c, "Invalid amount: "+raw)
		return decimal.Zero, false
	}
	return amount, true
}
