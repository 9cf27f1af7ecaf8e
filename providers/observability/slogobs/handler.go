package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	compactTimeLayout = "15:04:05.000"
	jsonTimeLayout    = time.RFC3339Nano
)

var levelColors = map[string]string{
	"TRACE": "\033[90m",
	"DEBUG": "\033[34m",
	"INFO":  "\033[32m",
	"WARN":  "\033[33m",
	"ERROR": "\033[31m",
}

const colorReset = "\033[0m"

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Format Format
	Level  slog.Leveler
	Output io.Writer
	Colors bool
}

// Handler is a slog.Handler writing compact or JSON lines. Handlers derived
// through WithAttrs and WithGroup share the writer lock of their parent.
type Handler struct {
	opts   HandlerOptions
	mu     *sync.Mutex
	prefix string
	attrs  []slog.Attr
}

// NewHandler returns a Handler. A nil opts writes compact INFO records to
// os.Stderr.
func NewHandler(opts *HandlerOptions) *Handler {
	h := &Handler{mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Output == nil {
		h.opts.Output = os.Stderr
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	if h.opts.Format != FormatJSON {
		h.opts.Format = FormatCompact
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = flatten(next.attrs, h.prefix, a)
	}
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	fields = append(fields, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)
		return true
	})

	var buf bytes.Buffer
	var err error
	if h.opts.Format == FormatJSON {
		err = h.writeJSON(&buf, r, fields)
	} else {
		h.writeCompact(&buf, r, fields)
	}
	if err != nil {
		return err
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.opts.Output.Write(buf.Bytes())
	return err
}

func (h *Handler) writeCompact(buf *bytes.Buffer, r slog.Record, fields []slog.Attr) {
	if !r.Time.IsZero() {
		buf.WriteString(r.Time.Format(compactTimeLayout))
		buf.WriteByte(' ')
	}
	label := levelLabel(r.Level)
	if h.opts.Colors {
		buf.WriteString(levelColors[label])
		buf.WriteString(label)
		buf.WriteString(colorReset)
	} else {
		buf.WriteString(label)
	}
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(f.Key)
		buf.WriteByte('=')
		buf.WriteString(compactValue(f.Value))
	}
}

func (h *Handler) writeJSON(buf *bytes.Buffer, r slog.Record, fields []slog.Attr) error {
	buf.WriteByte('{')
	if !r.Time.IsZero() {
		writeJSONField(buf, "time", r.Time.Format(jsonTimeLayout))
		buf.WriteByte(',')
	}
	writeJSONField(buf, "level", levelLabel(r.Level))
	buf.WriteByte(',')
	writeJSONField(buf, "msg", r.Message)
	for _, f := range fields {
		v, err := json.Marshal(jsonValue(f.Value))
		if err != nil {
			return fmt.Errorf("slogobs: encode %q: %w", f.Key, err)
		}
		buf.WriteByte(',')
		key, _ := json.Marshal(f.Key)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return nil
}

func writeJSONField(buf *bytes.Buffer, key, value string) {
	k, _ := json.Marshal(key)
	v, _ := json.Marshal(value)
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
}

// flatten appends a, expanding groups into dotted keys.
func flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		if a.Key == "" {
			return dst
		}
		return append(dst, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	if a.Key != "" {
		prefix += a.Key + "."
	}
	for _, ga := range a.Value.Group() {
		dst = flatten(dst, prefix, ga)
	}
	return dst
}

func compactValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\r\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(jsonTimeLayout)
	}
	s := fmt.Sprint(v.Any())
	if strings.ContainsAny(s, " \t\n\r\"=") {
		return strconv.Quote(s)
	}
	return s
}

func jsonValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(jsonTimeLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.Any()
}
