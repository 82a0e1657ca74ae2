package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const (
	uptraceLogInstrumentation = "nwsl-stats/internal/platform/logging"
	maxLogValueDepth          = 3
)

// newUptraceLogMirror forwards every emitted log line to the global OTel
// logger provider configured by uptrace.
func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if ctx == nil {
			ctx = context.Background()
		}
		severity := toOTelSeverity(level)
		if shouldSkipUptraceLog(msg, args) ||
			!otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}

		var record otellog.Record
		now := time.Now().UTC()
		record.SetTimestamp(now)
		record.SetObservedTimestamp(now)
		record.SetSeverity(severity)
		record.SetSeverityText(strings.ToUpper(level.String()))
		record.SetEventName(msg)
		record.SetBody(otellog.StringValue(msg))
		record.AddAttributes(buildOTelLogAttributes(args)...)
		otelLogger.Emit(ctx, record)
	}
}

// shouldSkipUptraceLog drops rewrites that changed nothing; a rerun of a
// finished season would otherwise ship one event per match.
func shouldSkipUptraceLog(msg string, args []any) bool {
	if msg != "participation written" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || (key != "inserted" && key != "updated") {
			continue
		}
		if n, ok := args[i+1].(int); !ok || n != 0 {
			return false
		}
	}
	return true
}

// buildOTelLogAttributes pairs up key/value args. A non-string key is named
// by its position and a trailing key without a value is kept empty.
func buildOTelLogAttributes(args []any) []otellog.KeyValue {
	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		if i+1 == len(args) {
			attrs = append(attrs, otellog.Empty(key))
			break
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: toOTelLogValue(args[i+1], 0)})
	}
	return attrs
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level == zapcore.ErrorLevel:
		return otellog.SeverityError
	default:
		return otellog.SeverityFatal
	}
}

func toOTelLogValue(value any, depth int) otellog.Value {
	switch v := value.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(v)
	case bool:
		return otellog.BoolValue(v)
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return otellog.Int64Value(int64(u))
		}
		return otellog.StringValue(fmt.Sprint(value))
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.String:
		return otellog.StringValue(rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return toOTelLogValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		items := make([]otellog.Value, rv.Len())
		for i := range items {
			items[i] = toOTelLogValue(rv.Index(i).Interface(), depth+1)
		}
		return otellog.SliceValue(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return otellog.StringValue(fmt.Sprint(value))
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		kvs := make([]otellog.KeyValue, len(keys))
		for i, key := range keys {
			kvs[i] = otellog.KeyValue{Key: key.String(), Value: toOTelLogValue(rv.MapIndex(key).Interface(), depth+1)}
		}
		return otellog.MapValue(kvs...)
	default:
		return otellog.StringValue(fmt.Sprint(value))
	}
}
