package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/pageza/wod-analyzer/backend/internal/metrics"
)

// RequestLogger logs every request with its status and latency, and feeds
// the request metrics when a manager is given
func RequestLogger(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		if metricsManager != nil {
			metricsManager.GaugeRequests.Add(1)
			defer metricsManager.GaugeRequests.Add(-1)
		}

		c.Next()

		took := time.Since(begin)
		status := c.Writer.Status()
		if metricsManager != nil {
			metricsManager.HistRequestDuration.WithLabelValues(c.Request.Method).Observe(took.Seconds())
			metricsManager.CounterRequests.With(prometheus.Labels{
				"method": c.Request.Method,
				"status": strconv.Itoa(status),
			}).Inc()
		}

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  status,
			"latency": took.String(),
			"client":  c.ClientIP(),
		})
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}
