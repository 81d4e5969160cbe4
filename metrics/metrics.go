package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tournament"

// Recorder receives operation outcomes from the service layer.
type Recorder interface {
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordMatchesCreated(ctx context.Context, format string, count int)
	RecordPrediction(ctx context.Context, branch string)
}

type prometheusRecorder struct {
	operations     *prometheus.CounterVec
	durations      *prometheus.HistogramVec
	matchesCreated *prometheus.CounterVec
	predictions    *prometheus.CounterVec
}

// NewPrometheusRecorder registers the service collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	r := &prometheusRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"operation", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		matchesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Matches written by bracket generation.",
		}, []string{"format"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions recorded, by heuristic branch.",
		}, []string{"branch"}),
	}
	reg.MustRegister(r.operations, r.durations, r.matchesCreated, r.predictions)
	return r
}

func (r *prometheusRecorder) RecordOperationSuccess(_ context.Context, operation string) {
	r.operations.WithLabelValues(operation, "success").Inc()
}

func (r *prometheusRecorder) RecordOperationFailure(_ context.Context, operation string) {
	r.operations.WithLabelValues(operation, "failure").Inc()
}

func (r *prometheusRecorder) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *prometheusRecorder) RecordMatchesCreated(_ context.Context, format string, count int) {
	r.matchesCreated.WithLabelValues(format).Add(float64(count))
}

func (r *prometheusRecorder) RecordPrediction(_ context.Context, branch string) {
	r.predictions.WithLabelValues(branch).Inc()
}

// Noop discards everything. Used when metrics are disabled and in tests.
type Noop struct{}

func (Noop) RecordOperationSuccess(context.Context, string)                 {}
func (Noop) RecordOperationFailure(context.Context, string)                 {}
func (Noop) RecordOperationDuration(context.Context, string, time.Duration) {}
func (Noop) RecordMatchesCreated(context.Context, string, int)              {}
func (Noop) RecordPrediction(context.Context, string)                       {}

// Observe records the outcome and latency of one operation started at start.
func Observe(ctx context.Context, r Recorder, operation string, start time.Time, err error) {
	if r == nil {
		return
	}
	r.RecordOperationDuration(ctx, operation, time.Since(start))
	if err != nil {
		r.RecordOperationFailure(ctx, operation)
		return
	}
	r.RecordOperationSuccess(ctx, operation)
}
