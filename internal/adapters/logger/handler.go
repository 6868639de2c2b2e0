package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/vimasm/internal/ui/output"
	"go.trai.ch/vimasm/internal/ui/style"
)

type levelStyle struct {
	icon  string
	color lipgloss.Color
}

var levelStyles = map[slog.Level]levelStyle{
	slog.LevelDebug: {icon: style.Tilde, color: style.Iris},
	slog.LevelInfo:  {color: style.Slate},
	slog.LevelWarn:  {icon: style.Warning, color: style.Yellow},
	slog.LevelError: {icon: style.Cross, color: style.Red},
}

// PrettyHandler is a slog.Handler that renders one colored line per record.
// The level is read on every record, so a shared slog.LevelVar changes it at runtime.
type PrettyHandler struct {
	// mu serializes writes to out and is shared by every handler derived from this one.
	mu     *sync.Mutex
	out    *termenv.Output
	level  slog.Leveler
	prefix string
	// fields holds the rendered "key=value" pairs added through WithAttrs.
	fields []string
}

// NewPrettyHandler creates a new PrettyHandler writing to w, or to stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{mu: &sync.Mutex{}, out: output.New(w), level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record as "<icon> message key=value ...".
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	st, ok := levelStyles[r.Level]
	if !ok {
		st = levelStyles[slog.LevelInfo]
	}

	var line strings.Builder
	if st.icon != "" {
		line.WriteString(st.icon)
		line.WriteByte(' ')
	}
	line.WriteString(r.Message)

	for _, field := range h.fields {
		line.WriteByte(' ')
		line.WriteString(field)
	}
	r.Attrs(func(attr slog.Attr) bool {
		line.WriteByte(' ')
		line.WriteString(h.render(attr))
		return true
	})

	styled := h.out.String(line.String()).Foreground(termenv.RGBColor(string(st.color)))

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a handler that appends attrs to every record.
// The attrs are qualified by the groups opened so far.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, attr := range attrs {
		next.fields = append(next.fields, h.render(attr))
	}
	return next
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		mu:     h.mu,
		out:    h.out,
		level:  h.level,
		prefix: h.prefix,
		fields: append([]string(nil), h.fields...),
	}
}

func (h *PrettyHandler) render(attr slog.Attr) string {
	return h.prefix + attr.Key + "=" + attr.Value.Resolve().String()
}
