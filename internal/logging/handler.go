package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler implements slog.Handler for terminal output:
//
//	3:04PM WARN  rule violated source=deposit.yaml rule=allowed_schemes
//
// Colors are used only when the writer supports them. Grouped attributes are
// written with dotted keys and sensitive values are masked.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	prefix string // preformatted attributes from WithAttrs
	groups []string

	palette *palette
}

type palette struct {
	time  *color.Color
	trace *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	error *color.Color
	key   *color.Color
}

// newPalette overrides color.NoColor in both directions, since the handler
// may write somewhere other than stdout.
func newPalette(enabled bool) *palette {
	p := &palette{
		time:  color.New(color.FgHiBlack),
		trace: color.New(color.FgBlue),
		debug: color.New(color.FgMagenta),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		error: color.New(color.FgRed, color.Bold),
		key:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.time, p.trace, p.debug, p.info, p.warn, p.error, p.key} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) level(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l > LevelTrace:
		return p.debug
	default:
		return p.trace
	}
}

// NewHandler creates a new terminal handler.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &Handler{
		opts:    *opts,
		out:     out,
		mu:      &sync.Mutex{},
		palette: newPalette(SupportsColor(out)),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats r as a single line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(h.palette.time.Sprint(r.Time.Format(time.Kitchen)))
		b.WriteByte(' ')
	}

	level := levelName(r.Level)
	// pad before painting so escape codes do not count toward the width
	fmt.Fprintf(&b, "%s ", h.palette.level(r.Level).Sprintf("%-5s", level))
	b.WriteString(r.Message)
	b.WriteString(h.prefix)

	group := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) appendAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.appendAttr(b, key, ga)
		}
		return
	}

	value := a.Value.String()
	if ShouldMask(a.Key) || ContainsTokenPrefix(value) {
		value = MaskValue(value)
	} else if strings.ContainsAny(value, " \t\n\"=") {
		value = strconv.Quote(value)
	}

	fmt.Fprintf(b, " %s=%s", h.palette.key.Sprint(key), value)
}

// WithAttrs returns a new Handler with the given attributes preformatted.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.prefix)
	group := strings.Join(h.groups, ".")
	for _, a := range attrs {
		h.appendAttr(&b, group, a)
	}
	newH := *h
	newH.prefix = b.String()
	return &newH
}

// WithGroup returns a new Handler that qualifies later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &newH
}
