package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("participation written", []any{"match_id", "m001", "inserted", 0, "updated", 0, "unchanged", 6}) {
		t.Fatalf("expected no-op rewrite log to be skipped")
	}
	if shouldSkipUptraceLog("participation written", []any{"match_id", "m001", "inserted", 0, "updated", 1, "unchanged", 5}) {
		t.Fatalf("did not expect a rewrite with updates to be skipped")
	}
	if shouldSkipUptraceLog("season run finished", []any{"inserted", 0, "updated", 0}) {
		t.Fatalf("did not expect other events to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"season_id", "nwsl-2016", "attempt", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "season_id" || attrs[0].Value.AsString() != "nwsl-2016" {
		t.Fatalf("unexpected season_id attribute")
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"shots": 11,
		"win":   true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	items := v.AsMap()
	if len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}

type matchState string

func TestToOTelLogValue_NamedScalars(t *testing.T) {
	if got := toOTelLogValue(matchState("DONE"), 0); got.AsString() != "DONE" {
		t.Fatalf("unexpected named string: got=%v want=DONE", got)
	}
	if got := toOTelLogValue(uint16(7), 0); got.AsInt64() != 7 {
		t.Fatalf("unexpected uint: got=%v want=7", got)
	}
	if got := toOTelLogValue([]int{1, 2}, 0); got.Kind() != otellog.KindSlice || len(got.AsSlice()) != 2 {
		t.Fatalf("unexpected slice: got=%v", got)
	}
	var missing *int
	if got := toOTelLogValue(missing, 0); got.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected nil pointer value: got=%v", got)
	}
}
