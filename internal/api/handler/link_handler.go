package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/debtwise-ledger/internal/api/service"
	"github.com/debtwise-ledger/internal/domain/account"
)

// LinkHandler handles HTTP requests for loan-to-card linking
type LinkHandler struct {
	linkService service.LinkService
	logger      *slog.Logger
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(logger *slog.Logger, linkService service.LinkService) *LinkHandler {
	return &LinkHandler{
		linkService: linkService,
		logger:      logger,
	}
}

// LinkCard links the loan to the credit card the expense was incurred on,
// charging the loan's outstanding balance onto the card
func (h *LinkHandler) LinkCard(c *gin.Context) {
	loanID, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	var req LinkCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		RespondBadRequest(c, "Invalid card ID")
		return
	}

	loan, err := h.linkService.LinkCard(c.Request.Context(), loanID, cardID)
	if err != nil {
		var accNotFound account.ErrAccountNotFound
		var alreadyLinked account.ErrAlreadyLinked
		var insufficientLimit account.ErrInsufficientLimit
		switch {
		case errors.As(err, &accNotFound):
			RespondNotFound(c, "Account not found")
		case errors.Is(err, account.ErrNotALoan) || errors.Is(err, account.ErrNotACreditCard):
			RespondBadRequest(c, err.Error())
		case errors.As(err, &alreadyLinked):
			RespondConflict(c, "Loan is already linked to card "+alreadyLinked.CardID.String())
		case errors.As(err, &insufficientLimit):
			RespondUnprocessable(c, "Card limit insufficient: requested "+
				insufficientLimit.Requested.StringFixed(2)+", available "+
				insufficientLimit.Available.StringFixed(2))
		default:
			h.logger.Error("Failed to link loan to card", "loan_id", loanID.String(), "card_id", cardID.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapAccountToResponse(loan.Account, loan.Balance))
}
