package telemetry

import (
	"context"
	"testing"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if IsEnabled() {
		t.Error("Expected telemetry disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Noop shutdown failed: %v", err)
	}

	// Spans still work, they just go nowhere.
	ctx, span := StartSpan(context.Background(), "test")
	RecordError(ctx, nil)
	span.End()
}

func TestInitProfiling_DisabledIsNoop(t *testing.T) {
	shutdown, err := InitProfiling(ProfilingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("InitProfiling failed: %v", err)
	}
	if IsProfilingEnabled() {
		t.Error("Expected profiling disabled")
	}
	if err := shutdown(); err != nil {
		t.Errorf("Noop shutdown failed: %v", err)
	}
}

func TestParseProfileType(t *testing.T) {
	for _, valid := range []string{"cpu", "alloc_space", "inuse_space", "goroutines", "mutex_count", "block_duration"} {
		if _, err := parseProfileType(valid); err != nil {
			t.Errorf("parseProfileType(%q) failed: %v", valid, err)
		}
	}
	if _, err := parseProfileType("heap_of_trouble"); err == nil {
		t.Error("Expected error for unknown profile type")
	}
}
