// Package observe provides application-wide observability primitives for the
// chunker pipeline: OpenTelemetry metrics and the Prometheus exporter bridge
// that serves them.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A package-level
// default [Metrics] instance ([DefaultMetrics]) is provided for convenience;
// tests should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all chunker metrics.
const meterName = "github.com/MrWong99/semanticchunker"

// Metrics holds all OpenTelemetry metric instruments for the pipeline.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// EmbedBatchDuration tracks the latency of a single embedder batch call
	// (internal/embedder, C2).
	EmbedBatchDuration metric.Float64Histogram

	// LLMCallDuration tracks the latency of a single router-dispatched LLM
	// call (internal/llmrouter, C3-C5), from permit acquisition through
	// the final attempt.
	LLMCallDuration metric.Float64Histogram

	// LLMCalls counts LLM calls. Use with attributes:
	//   attribute.String("backend", "local"|"remote"),
	//   attribute.String("status", "ok"|"error"),
	//   attribute.String("kind", "" on success, else a llmrouter.Kind string)
	LLMCalls metric.Int64Counter

	// StageCInFlight tracks the number of Stage-C adjudication calls
	// currently awaiting a vote response.
	StageCInFlight metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds) covering
// both fast local-embedder batches and slower remote LLM round-trips.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.EmbedBatchDuration, err = m.Float64Histogram("semanticchunker.embed_batch.duration",
		metric.WithDescription("Latency of a single embedder batch call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMCallDuration, err = m.Float64Histogram("semanticchunker.llm_call.duration",
		metric.WithDescription("Latency of a router-dispatched LLM call, including retries."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMCalls, err = m.Int64Counter("semanticchunker.llm_calls",
		metric.WithDescription("Total LLM calls by backend, status, and failure kind."),
	); err != nil {
		return nil, err
	}
	if met.StageCInFlight, err = m.Int64UpDownCounter("semanticchunker.stage_c.in_flight",
		metric.WithDescription("Number of Stage-C adjudication vote calls currently in flight."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordLLMCall is a convenience method that records an LLM call counter
// increment and its latency with the standard attribute set.
func (m *Metrics) RecordLLMCall(ctx context.Context, backend, status, kind string, durationSeconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("status", status),
		attribute.String("kind", kind),
	)
	m.LLMCalls.Add(ctx, 1, attrs)
	m.LLMCallDuration.Record(ctx, durationSeconds, attrs)
}

// RecordEmbedBatch is a convenience method that records an embedder batch
// call's latency.
func (m *Metrics) RecordEmbedBatch(ctx context.Context, durationSeconds float64) {
	m.EmbedBatchDuration.Record(ctx, durationSeconds)
}
