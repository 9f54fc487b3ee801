package services

import (
	"context"

	"go.uber.org/zap"
)

// MetricsRecorder counts business events. *aws.MetricsClient satisfies it.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

func recordCount(ctx context.Context, m MetricsRecorder, logger *zap.Logger, name string, dims map[string]string) {
	if m == nil {
		return
	}
	if err := m.RecordCount(ctx, name, dims); err != nil {
		logger.Debug("Failed to record metric", zap.String("metric", name), zap.Error(err))
	}
}
