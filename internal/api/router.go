package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtwise-ledger/internal/api/handler"
	"github.com/debtwise-ledger/internal/api/middleware"
	"github.com/debtwise-ledger/internal/obs"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	ledgerHandler *handler.LedgerHandler,
	linkHandler *handler.LinkHandler,
	recommendationHandler *handler.RecommendationHandler,
	businessHandler *handler.BusinessHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Metrics())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account lifecycle and ledger operations, shared by both kinds
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.DELETE("/:id", accountHandler.Delete)
			accounts.GET("/:id/balance", ledgerHandler.Balance)
			accounts.GET("/:id/events", ledgerHandler.ListEvents)
			accounts.POST("/:id/repayments", ledgerHandler.Repay)
			accounts.POST("/:id/corrections", ledgerHandler.CorrectBalance)
		}

		// Loan operations
		loans := v1.Group("/loans")
		{
			loans.POST("", accountHandler.CreateLoan)
			loans.POST("/:id/link-card", linkHandler.LinkCard)
		}

		// Credit card operations
		creditCards := v1.Group("/credit-cards")
		{
			creditCards.POST("", accountHandler.CreateCreditCard)
			creditCards.GET("/balances", ledgerHandler.CardBalances)
		}

		// Allocation recommendations
		recommendations := v1.Group("/recommendations")
		{
			recommendations.GET("/repayment", recommendationHandler.Repayment)
			recommendations.GET("/purchase", recommendationHandler.Purchase)
		}

		// VAT-aware business transactions
		businessTxs := v1.Group("/business-transactions")
		{
			businessTxs.POST("", businessHandler.Create)
			businessTxs.GET("", businessHandler.List)
			businessTxs.GET("/:id", businessHandler.GetByID)
			businessTxs.PUT("/:id", businessHandler.Update)
			businessTxs.DELETE("/:id", businessHandler.Delete)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(obs.Handler()))
}
