package middleware

import (
	"context"
	"fmt"
	"path"
	"time"

	aws_pkg "github.com/alanherrera2015-beep/examexperts/pkg/aws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const metricsFlushTimeout = 5 * time.Second

// RequestMetrics is the subset of *aws_pkg.MetricsClient the middleware needs.
type RequestMetrics interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, name string, dims map[string]string) error
	RecordLatency(ctx context.Context, name string, d time.Duration, dims map[string]string) error
}

// MetricsMiddleware publishes one request count and latency per request,
// plus error counters for 4xx/5xx, dimensioned by function name. Publishing
// happens off the request goroutine.
func MetricsMiddleware(m RequestMetrics, serviceName string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || !m.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		dims := map[string]string{
			"Service":  serviceName,
			"Function": functionName(c.FullPath()),
			"Method":   c.Request.Method,
			"Status":   StatusClass(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), metricsFlushTimeout)
			defer cancel()

			names := []string{aws_pkg.MetricHTTPRequests}
			switch {
			case status >= 500:
				names = append(names, aws_pkg.MetricHTTPErrors, aws_pkg.MetricHTTP5xx)
			case status >= 400:
				names = append(names, aws_pkg.MetricHTTPErrors, aws_pkg.MetricHTTP4xx)
			}
			for _, name := range names {
				if err := m.RecordCount(ctx, name, dims); err != nil {
					logger.Debug("metric dropped", zap.String("metric", name), zap.Error(err))
				}
			}
			if err := m.RecordLatency(ctx, aws_pkg.MetricHTTPLatency, elapsed, dims); err != nil {
				logger.Debug("metric dropped", zap.String("metric", aws_pkg.MetricHTTPLatency), zap.Error(err))
			}
		}()
	}
}

// functionName keeps metric cardinality bounded: unmatched routes collapse
// into one series.
func functionName(route string) string {
	if route == "" {
		return "unmatched"
	}
	return path.Base(route)
}

// StatusClass buckets a status code ("2xx", "4xx", ...).
func StatusClass(status int) string {
	if status < 200 || status > 599 {
		return "unknown"
	}
	return fmt.Sprintf("%dxx", status/100)
}
