package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	return NewWithWriter(buf, &Config{Level: level, Format: "json"}, "test")
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "invalid-level")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("invalid level should fall back to info, got %q", buf.String())
	}
	l.Info("shown")
	if buf.Len() == 0 {
		t.Error("expected info line")
	}
}

func TestInfo_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	l.Info("step completed", StepFields("decoder.syn", 1500*time.Millisecond))

	m := decodeLine(t, &buf)
	if m["message"] != "step completed" {
		t.Errorf("unexpected message %v", m["message"])
	}
	if m[FieldStep] != "decoder.syn" {
		t.Errorf("expected step field, got %v", m[FieldStep])
	}
	if m[FieldDuration] != float64(1500) {
		t.Errorf("expected duration_ms=1500, got %v", m[FieldDuration])
	}
	if m["level"] != "info" {
		t.Errorf("expected level info, got %v", m["level"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug")
	cl := l.WithComponent("scheduler")
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Debug("visiting")

	m := decodeLine(t, &buf)
	if m[FieldComponent] != "scheduler" {
		t.Errorf("expected component=scheduler, got %v", m[FieldComponent])
	}
}

func TestWithContext_RunID(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	ctx := ContextWithRunID(context.Background(), "run-1")
	l.WithContext(ctx).Info("starting")

	m := decodeLine(t, &buf)
	if m[FieldRunID] != "run-1" {
		t.Errorf("expected run_id=run-1, got %v", m[FieldRunID])
	}
	if _, ok := m[FieldTraceID]; ok {
		t.Error("no span in context, expected no trace_id")
	}
}

func TestWithContext_Span(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	l.WithContext(ctx).Info("traced")

	m := decodeLine(t, &buf)
	if m[FieldTraceID] != sc.TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", sc.TraceID(), m[FieldTraceID])
	}
	if m[FieldSpanID] != sc.SpanID().String() {
		t.Errorf("expected span_id %s, got %v", sc.SpanID(), m[FieldSpanID])
	}
}

func TestRunIDFromContext_Empty(t *testing.T) {
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty run id, got %q", got)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	l.WithFields(Fields(FieldModule, "fulladder")).Warn("pinned")

	m := decodeLine(t, &buf)
	if m[FieldModule] != "fulladder" {
		t.Errorf("expected module field, got %v", m[FieldModule])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	l.WithError(fmt.Errorf("boom")).Error("failed")

	m := decodeLine(t, &buf)
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestConsoleFormat(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "console", NoColor: true}, "test")
	l.Info("running", Fields(FieldSubstep, "syn_map"))

	out := buf.String()
	if !strings.Contains(out, "[INF]") {
		t.Errorf("expected [INF] tag, got %q", out)
	}
	if !strings.Contains(out, "substep:syn_map") {
		t.Errorf("expected substep field, got %q", out)
	}
}

func TestInit(t *testing.T) {
	Init(Config{Level: "warn", Format: "json"})
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Errorf("expected global level warn, got %v", zerolog.GlobalLevel())
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected custom logger to be returned")
	}
}

func TestRegistry(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	l := jsonLogger(&buf, "info")
	Register("tool", l)
	if Get("tool") != l {
		t.Error("expected registered logger")
	}

	SetGlobalLogger(l)
	RegisterDefaults("flows")
	Get("flows").Info("composed")
	m := decodeLine(t, &buf)
	if m[FieldComponent] != "flows" {
		t.Errorf("expected component=flows, got %v", m[FieldComponent])
	}

	if Get("unregistered") == nil {
		t.Error("Get should fall back to a component logger")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "debug", Format: "json", Output: "stdout"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("odd trailing key should be dropped, got %v", f)
	}

	ef := ErrorFields("top.drc", fmt.Errorf("bad"))
	if ef[FieldStep] != "top.drc" || ef[FieldError] != "bad" {
		t.Errorf("unexpected error fields %v", ef)
	}

	m := MergeWithError(nil, fmt.Errorf("x"))
	m = MergeWithDuration(m, 2*time.Second)
	if m[FieldError] != "x" || m[FieldDuration] != int64(2000) {
		t.Errorf("unexpected merged fields %v", m)
	}
}
