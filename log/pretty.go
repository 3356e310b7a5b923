package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// layout selects how a prettyHandler arranges the fields of a record.
type layout int

const (
	textLayout layout = iota // key=value pairs on one line
	jsonLayout               // one indented key per line, braces around
)

var (
	keyColor      = color.New(color.FgHiBlack)
	stringColor   = color.New(color.FgCyan)
	numberColor   = color.New(color.FgYellow)
	trueColor     = color.New(color.FgGreen)
	falseColor    = color.New(color.FgRed)
	durationColor = color.New(color.FgMagenta)
	timeColor     = color.New(color.FgBlue)
	nullColor     = color.New(color.FgHiBlack, color.Italic)
)

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		return color.New(color.FgYellow, color.Bold)
	case level >= slog.LevelInfo:
		return color.New(color.FgGreen)
	case level >= slog.LevelDebug:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgHiBlack)
	}
}

// prettyHandler is a colorized [slog.Handler] for terminals.
// Color output follows [color.NoColor], so redirected output stays plain.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	layout layout
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	layout layout,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		layout: layout,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs)+4)

	if !r.Time.IsZero() {
		fields = h.appendBuiltin(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.appendBuiltin(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = h.appendBuiltin(fields, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = h.appendBuiltin(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	prefix := h.prefix()

	r.Attrs(func(a slog.Attr) bool {
		fields = appendFlat(fields, prefix, a)

		return true
	})

	var buf bytes.Buffer

	switch h.layout {
	case jsonLayout:
		h.writeJSON(&buf, r.Level, fields)
	default:
		h.writeText(&buf, r.Level, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	dup := *h
	dup.attrs = slices.Clip(h.attrs)

	prefix := h.prefix()
	for _, a := range attrs {
		dup.attrs = appendFlat(dup.attrs, prefix, a)
	}

	return &dup
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	dup := *h
	dup.groups = append(slices.Clip(h.groups), name)

	return &dup
}

func (h *prettyHandler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}

	return strings.Join(h.groups, ".") + "."
}

// appendBuiltin applies the configured ReplaceAttr to a built-in attribute.
// A replacement with an empty key drops the attribute.
func (h *prettyHandler) appendBuiltin(
	fields []slog.Attr,
	a slog.Attr,
) []slog.Attr {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return fields
	}

	return append(fields, a)
}

// appendFlat resolves a and appends it, flattening groups into dotted keys.
func appendFlat(fields []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() != slog.KindGroup {
		a.Key = prefix + a.Key

		return append(fields, a)
	}

	inner := prefix
	if a.Key != "" {
		inner = prefix + a.Key + "."
	}

	for _, g := range a.Value.Group() {
		fields = appendFlat(fields, inner, g)
	}

	return fields
}

func (h *prettyHandler) writeText(
	buf *bytes.Buffer,
	level slog.Level,
	fields []slog.Attr,
) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyColor.Sprint(a.Key))
		buf.WriteByte('=')
		writeValue(buf, level, a)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(
	buf *bytes.Buffer,
	level slog.Level,
	fields []slog.Attr,
) {
	buf.WriteString("{\n")

	for i, a := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(keyColor.Sprint(a.Key))
		buf.WriteString(": ")
		writeValue(buf, level, a)
	}

	buf.WriteString("\n}\n")
}

func writeValue(buf *bytes.Buffer, level slog.Level, a slog.Attr) {
	v := a.Value

	if a.Key == slog.LevelKey {
		buf.WriteString(levelColor(level).Sprint(v.String()))

		return
	}

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(stringColor.Sprint(v.String()))

	case slog.KindInt64:
		buf.WriteString(numberColor.Sprint(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(numberColor.Sprint(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(numberColor.Sprint(
			strconv.FormatFloat(v.Float64(), 'g', -1, 64)))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(trueColor.Sprint("true"))
		} else {
			buf.WriteString(falseColor.Sprint("false"))
		}

	case slog.KindDuration:
		buf.WriteString(durationColor.Sprint(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(timeColor.Sprint(v.Time().String()))

	default:
		if v.Any() == nil {
			buf.WriteString(nullColor.Sprint("null"))

			return
		}

		buf.WriteString(stringColor.Sprint(fmt.Sprint(v.Any())))
	}
}
