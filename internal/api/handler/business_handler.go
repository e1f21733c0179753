package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtwise-ledger/internal/api/service"
	"github.com/debtwise-ledger/internal/domain/business"
)

// BusinessHandler handles HTTP requests for VAT-aware business transactions
type BusinessHandler struct {
	businessService service.BusinessService
	logger          *slog.Logger
}

// NewBusinessHandler creates a new business transaction handler
func NewBusinessHandler(logger *slog.Logger, businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{
		businessService: businessService,
		logger:          logger,
	}
}

// Create records a new business transaction. Gross amount and VAT rate are
// derived server-side; an income transaction marked VAT-exempt is stored with
// zero VAT and gross equal to net.
func (h *BusinessHandler) Create(c *gin.Context) {
	tx, ok := h.bindTransaction(c)
	if !ok {
		return
	}

	created, err := h.businessService.CreateTransaction(c.Request.Context(), tx)
	if err != nil {
		h.respondError(c, err, "Failed to create business transaction")
		return
	}

	RespondCreated(c, created)
}

// GetByID retrieves a business transaction, returning 404 if not found
func (h *BusinessHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	tx, err := h.businessService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get business transaction")
		return
	}

	RespondOK(c, tx)
}

// List returns a page of business transactions
func (h *BusinessHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	txs, total, err := h.businessService.ListTransactions(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list business transactions", "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, txs, params.Page, params.PerPage, int(total))
}

// Update replaces a business transaction, recomputing its derived fields
func (h *BusinessHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	tx, ok := h.bindTransaction(c)
	if !ok {
		return
	}
	tx.ID = id

	updated, err := h.businessService.UpdateTransaction(c.Request.Context(), tx)
	if err != nil {
		h.respondError(c, err, "Failed to update business transaction")
		return
	}

	RespondOK(c, updated)
}

// Delete soft-deletes a business transaction
func (h *BusinessHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger)
	if !ok {
		return
	}

	if err := h.businessService.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete business transaction")
		return
	}

	RespondNoContent(c)
}

// bindTransaction binds and maps the request body onto a domain transaction
func (h *BusinessHandler) bindTransaction(c *gin.Context) (*business.Transaction, bool) {
	var req BusinessTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return nil, false
	}

	tx := &business.Transaction{
		CounterpartyName:     req.CounterpartyName,
		CounterpartyTaxID:    req.CounterpartyTaxID,
		CounterpartyCountry:  req.CounterpartyCountry,
		Description:          req.Description,
		Type:                 business.Type(req.Type),
		NetAmount:            req.NetAmount,
		VatAmount:            req.VatAmount,
		VatExemption:         req.VatExemption,
		WithholdingTaxAmount: req.WithholdingTaxAmount,
		Currency:             req.Currency,
		PaymentMethod:        req.PaymentMethod,
		InvoiceNumber:        req.InvoiceNumber,
	}
	if req.Date != nil {
		tx.Date = *req.Date
	} else {
		tx.Date = time.Now()
	}
	return tx, true
}

// respondError maps business service errors to HTTP responses
func (h *BusinessHandler) respondError(c *gin.Context, err error, logMessage string) {
	var notFound business.ErrTransactionNotFound
	switch {
	case errors.As(err, &notFound):
		RespondNotFound(c, "Business transaction not found")
	case errors.Is(err, business.ErrEmptyCounterparty),
		errors.Is(err, business.ErrInvalidType),
		errors.Is(err, business.ErrNonPositiveNet),
		errors.Is(err, business.ErrNegativeVat),
		errors.Is(err, business.ErrNegativeWithholding):
		RespondBadRequest(c, err.Error())
	default:
		h.logger.Error(logMessage, "error", err)
		RespondInternalError(c)
	}
}
