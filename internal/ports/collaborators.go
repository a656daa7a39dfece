package ports

import (
	"context"
	"time"

	"github.com/ahrav/go-tally/internal/domain"
)

// IdentityProvider resolves an opaque actor ID into a role and the stable
// signature name certifications are checked against. The engine never
// reads ambient session state; every operation receives an explicit actor
// and resolves it through this contract.
type IdentityProvider interface {
	// Resolve returns the identity for the given actor ID.
	// Returns a domain.NotFoundError for unknown actors.
	Resolve(ctx context.Context, actorID string) (domain.Identity, error)
}

// AuditSink receives the engine's audit trail. Record is called
// synchronously before certification, unsign, and retire operations
// report success, so a sink failure aborts the operation.
type AuditSink interface {
	// Record persists one audit entry.
	Record(ctx context.Context, entry domain.AuditEntry) error
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations should integrate with observability platforms
// like Prometheus or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	// This is useful for tracking events like rejected writes, conflicts,
	// and certification outcomes.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	// This is useful for tracking values like open discrepancy cases.
	RecordGauge(metric string, value float64, labels map[string]string)
}

// NopMetrics is a MetricsCollector that discards everything. It is the
// default when no collector is configured.
type NopMetrics struct{}

// RecordLatency implements MetricsCollector.
func (NopMetrics) RecordLatency(string, time.Duration, map[string]string) {}

// RecordCounter implements MetricsCollector.
func (NopMetrics) RecordCounter(string, float64, map[string]string) {}

// RecordGauge implements MetricsCollector.
func (NopMetrics) RecordGauge(string, float64, map[string]string) {}
