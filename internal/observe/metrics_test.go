package observe

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics_CreatesAllInstruments(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	if m.EmbedBatchDuration == nil || m.LLMCallDuration == nil || m.LLMCalls == nil || m.StageCInFlight == nil {
		t.Fatal("NewMetrics left an instrument nil")
	}
}

func TestRecordLLMCall_RecordsCounterAndHistogram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordLLMCall(ctx, "local", "ok", "", 0.2)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var sawCounter, sawHistogram bool
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			switch metric.Name {
			case "semanticchunker.llm_calls":
				sawCounter = true
			case "semanticchunker.llm_call.duration":
				sawHistogram = true
			}
		}
	}
	if !sawCounter {
		t.Error("llm_calls counter was not recorded")
	}
	if !sawHistogram {
		t.Error("llm_call.duration histogram was not recorded")
	}
}

func TestRecordEmbedBatch_RecordsHistogram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordEmbedBatch(ctx, 0.05)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var saw bool
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			if metric.Name == "semanticchunker.embed_batch.duration" {
				saw = true
			}
		}
	}
	if !saw {
		t.Error("embed_batch.duration histogram was not recorded")
	}
}
