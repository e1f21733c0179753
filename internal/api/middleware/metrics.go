package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtwise-ledger/internal/obs"
)

// Metrics middleware records request counts, in-flight gauge and latency
// histograms per route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		obs.RequestStarted()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		obs.RequestFinished(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
