package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// UpstreamMetrics tracks outbound calls to the Azure DevOps API.
type UpstreamMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	requestsTotal   *Counter
	requestDuration *Histogram
}

// UpstreamMetricsConfig holds configuration for upstream call metrics.
type UpstreamMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewUpstreamMetrics creates a new UpstreamMetrics instance.
func NewUpstreamMetrics(cfg UpstreamMetricsConfig) (*UpstreamMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	um := &UpstreamMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	um.requestsTotal, err = NewCounter(
		cfg.Meter,
		"azproxy_upstream_requests_total",
		"Total number of Azure DevOps API requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	um.requestDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "azproxy_upstream_request_duration_seconds",
		Description: "Azure DevOps API request duration",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return um, nil
}

// RecordRequest records one upstream call with its operation name,
// response status and duration.
func (um *UpstreamMetrics) RecordRequest(ctx context.Context, operation string, statusCode int, d time.Duration) {
	if um == nil {
		return
	}

	attrs := []attribute.KeyValue{
		AttrUpstreamOperation.String(operation),
		AttrUpstreamStatus.Int(statusCode),
	}

	um.requestsTotal.Inc(ctx, attrs...)
	um.requestDuration.RecordDuration(ctx, d, attrs...)
}
