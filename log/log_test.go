package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_Make_Defaults(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller != DefaultCaller || logger.pretty != DefaultPretty {
		t.Errorf("unexpected defaults: caller=%v pretty=%v",
			logger.caller, logger.pretty)
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	logger.Info("nothing")
	logger.TraceContext(context.Background(), "nothing")

	if logger.Enabled(context.Background(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if got := logger.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With on zero logger produced a live logger")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger)
		want  bool
	}{
		{"trace hidden at debug", LevelDebug, func(l Logger) { l.Trace("msg") }, false},
		{"trace shown at trace", LevelTrace, func(l Logger) { l.Trace("msg") }, true},
		{"info hidden at warn", LevelWarn, func(l Logger) { l.Info("msg") }, false},
		{"error shown at warn", LevelWarn, func(l Logger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := strings.Contains(buf.String(), "msg"); got != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSON_LevelNames(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	)

	logger.Trace("hello", slog.Int("n", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if _, ok := rec["time"]; ok {
		t.Error("time present despite layout none")
	}

	if rec["n"] != float64(3) {
		t.Errorf("n = %v, want 3", rec["n"])
	}
}

func TestLogger_Caller_PointsAtCallSite(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithCaller(true))
	logger.Info("where")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("source does not reference test file: %s", buf.String())
	}
}

func TestLogger_Wrap_DoesNotMutate(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelInfo), WithPretty(false))
	wrapped := base.Wrap(WithLevel(LevelError))

	if base.Level() != LevelInfo {
		t.Errorf("base level changed to %v", base.Level())
	}

	if wrapped.Level() != LevelError {
		t.Errorf("wrapped level = %v", wrapped.Level())
	}
}

func TestLogger_With_Attributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(false)).
		With(slog.String("component", "rewrite"))

	logger.Info("done")

	if !strings.Contains(buf.String(), "component=rewrite") {
		t.Errorf("missing attribute: %s", buf.String())
	}
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("inner", "resolved"))
}

func TestPrettyHandler_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout("none"),
	).With(slog.String("scope", "test"))

	logger.Warn("careful",
		slog.Bool("flag", true),
		slog.Any("err", errors.New("boom")),
		slog.Any("v", valuer{}),
		slog.Group("g", slog.Int("x", 1)),
	)

	out := buf.String()

	for _, want := range []string{"WARN", "careful", "scope", "flag", "boom", "v.inner", "resolved", "g.x"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty text output missing %q: %s", want, out)
		}
	}

	if !strings.HasSuffix(out, "\n") {
		t.Error("pretty text output not newline terminated")
	}
}

func TestPrettyHandler_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true))
	logger.Error("failed", slog.Float64("ratio", 0.5))

	out := buf.String()

	if !strings.HasPrefix(out, "{\n") || !strings.HasSuffix(out, "\n}\n") {
		t.Errorf("pretty JSON not braced: %q", out)
	}

	for _, want := range []string{"ERROR", "failed", "ratio", "0.5", "time"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty JSON output missing %q: %s", want, out)
		}
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	h := newPrettyHandler(&buf, &slog.HandlerOptions{}, textLayout)
	slog.New(h).WithGroup("outer").Info("msg", slog.String("k", "v"))

	if !strings.Contains(buf.String(), "outer.k") {
		t.Errorf("group prefix missing: %s", buf.String())
	}
}
