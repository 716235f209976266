package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/empathy-ledger/campaign-workflow-api/internal/metrics"
)

// Metrics records the duration of every request by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
