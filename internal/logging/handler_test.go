package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestHandler(level slog.Level) (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: level}))
}

func TestHandler_Handle(t *testing.T) {
	buf, logger := newTestHandler(slog.LevelDebug)

	now := time.Now()
	logger.Info("document checked", "source", "deposit.yaml", "issues", 2)

	output := buf.String()
	for _, want := range []string{"INFO ", "document checked", "source=deposit.yaml", "issues=2"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %q", want, output)
		}
	}
	if !strings.HasPrefix(output, now.Format(time.Kitchen)) {
		t.Errorf("expected output to start with the time, got: %q", output)
	}
	if strings.Count(output, "\n") != 1 || !strings.HasSuffix(output, "\n") {
		t.Errorf("expected a single line, got: %q", output)
	}
}

func TestHandler_WithAttrs(t *testing.T) {
	buf, logger := newTestHandler(slog.LevelInfo)
	logger = logger.With("type", "deposit")

	logger.Info("message", "rule", "uuid")

	if got := buf.String(); !strings.Contains(got, "message type=deposit rule=uuid") {
		t.Errorf("expected derived attributes before record attributes, got: %q", got)
	}
}

func TestHandler_Groups(t *testing.T) {
	buf, logger := newTestHandler(slog.LevelInfo)

	logger.With("source", "a.yaml").WithGroup("rule").With("kind", "uuid").
		Info("evaluated", "valid", false, slog.Group("config", "field", "token"))

	output := buf.String()
	for _, want := range []string{"source=a.yaml", "rule.kind=uuid", "rule.valid=false", "rule.config.field=token"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %q", want, output)
		}
	}
}

func TestHandler_QuotesValues(t *testing.T) {
	buf, logger := newTestHandler(slog.LevelInfo)

	logger.Info("violation", "message", "must be a valid UUID")

	if got := buf.String(); !strings.Contains(got, `message="must be a valid UUID"`) {
		t.Errorf("expected quoted value, got: %q", got)
	}
}

func TestHandler_SkipsEmptyAttrs(t *testing.T) {
	buf, logger := newTestHandler(slog.LevelInfo)

	logger.Info("message", slog.Attr{}, "k", "v")

	if got := buf.String(); strings.Contains(got, "=<nil>") || strings.Contains(got, " =") {
		t.Errorf("empty attribute should be skipped, got: %q", got)
	}
}

func TestHandler_Enabled(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	ctx := t.Context()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected Info level to be disabled when min level is Warn")
	}
	if !h.Enabled(ctx, slog.LevelWarn) {
		t.Error("expected Warn level to be enabled")
	}

	if NewHandler(&bytes.Buffer{}, nil).Enabled(ctx, slog.LevelDebug) {
		t.Error("expected Info to be the default minimum level")
	}
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)
	if err := h.Handle(t.Context(), r); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if got := buf.String(); got != "INFO  no time\n" {
		t.Errorf("expected no time in output, got: %q", got)
	}
}

func TestHandler_Redaction(t *testing.T) {
	buf, logger := newTestHandler(slog.LevelInfo)

	// Keys are matched case-insensitively
	logger.Info("sensitive data", "api_key", "secret12345", "Token", "ghp_abcdef")

	output := buf.String()
	if strings.Contains(output, "secret12345") || strings.Contains(output, "ghp_abcdef") {
		t.Errorf("sensitive values should be redacted, got: %q", output)
	}
	if !strings.Contains(output, "api_key=****2345") {
		t.Errorf("expected masked api_key, got: %q", output)
	}
	if !strings.Contains(output, "Token=****cdef") {
		t.Errorf("expected masked Token, got: %q", output)
	}

	// Values with a token prefix are masked whatever the key
	buf.Reset()
	logger.Info("issue", "value", "sword:a8348df2-768d-4995-acc8-0ea878b05078")
	if got := buf.String(); !strings.Contains(got, "value=****5078") {
		t.Errorf("expected masked deposit token, got: %q", got)
	}
}
