package middleware

import (
	"strconv"
	"time"

	"github.com/bolt-support/insights-service/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Observe logs each request and records prometheus counters/durations.
// The route template (not the raw path) is used as the endpoint label.
func Observe(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()
		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(elapsed.Seconds())

		evt := log.Info()
		if status >= 500 {
			evt = log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")
	}
}
