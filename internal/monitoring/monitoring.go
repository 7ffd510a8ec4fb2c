// Package monitoring provides structured request logging and in-memory
// request metrics for the HTTP surface.
package monitoring

import (
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// NewLogger builds the process-wide JSON logger.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// Metrics tracks request counters. Counters are atomic so middleware never
// contends.
type Metrics struct {
	Requests       atomic.Int64
	Errors         atomic.Int64
	Analyses       atomic.Int64
	FeedbackEvents atomic.Int64
}

// NewMetrics creates an empty metrics set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Stats returns a snapshot of the counters.
func (m *Metrics) Stats() map[string]int64 {
	return map[string]int64{
		"requests":        m.Requests.Load(),
		"errors":          m.Errors.Load(),
		"analyses":        m.Analyses.Load(),
		"feedback_events": m.FeedbackEvents.Load(),
	}
}

// Middleware logs each request and updates counters.
func Middleware(metrics *Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		metrics.Requests.Add(1)
		status := c.Writer.Status()
		if status >= 400 {
			metrics.Errors.Add(1)
		}
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
