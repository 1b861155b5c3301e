package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/m-mizutani/masq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/go-error-filters/internal/platform/config"
)

// decode parses the single JSON line in buf.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	return entry
}

func TestFromContext(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Same(t, defaultLogger, FromContext(nil)) //nolint:staticcheck // nil guard
	assert.Same(t, defaultLogger, FromContext(context.Background()))
	assert.Same(t, custom, FromContext(WithContext(context.Background(), custom)))
}

func TestFromContextOr(t *testing.T) {
	ctxLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewJSONHandler(io.Discard, nil))

	tests := []struct {
		name     string
		ctx      context.Context
		fallback *slog.Logger
		expected *slog.Logger
	}{
		{"context logger wins", WithContext(context.Background(), ctxLogger), fallback, ctxLogger},
		{"fallback without context logger", context.Background(), fallback, fallback},
		{"nil context uses fallback", nil, fallback, fallback},
		{"nil fallback uses default", context.Background(), nil, defaultLogger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.expected, FromContextOr(tt.ctx, tt.fallback))
		})
	}
}

func TestContextIDs(t *testing.T) {
	tests := []struct {
		name   string
		enrich func(context.Context) context.Context
		key    string
		value  string
	}{
		{"request id", func(ctx context.Context) context.Context { return WithRequestID(ctx, "req-1") }, "request_id", "req-1"},
		{"trace id", func(ctx context.Context) context.Context { return WithTraceID(ctx, "4bf92f35") }, "trace_id", "4bf92f35"},
		{"correlation id", func(ctx context.Context) context.Context { return WithCorrelationID(ctx, "corr-9") }, "correlation_id", "corr-9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.enrich(WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil))))

			FromContext(ctx).InfoContext(ctx, "message lookup failed")

			assert.Equal(t, tt.value, decode(t, &buf)[tt.key])
		})
	}
}

func TestContextIDs_Accumulate(t *testing.T) {
	var buf bytes.Buffer

	ctx := WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTraceID(ctx, "trace-2")
	ctx = WithCorrelationID(ctx, "corr-3")

	FromContext(ctx).Info("http exception")

	entry := decode(t, &buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "trace-2", entry["trace_id"])
	assert.Equal(t, "corr-3", entry["correlation_id"])
}

func TestSetDefault(t *testing.T) {
	original := defaultLogger
	t.Cleanup(func() { SetDefault(original) })

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	SetDefault(custom)

	assert.Same(t, custom, FromContext(context.Background()))
	assert.Same(t, custom, slog.Default())
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		json   bool
	}{
		{format: "json", json: true},
		{format: "text"},
		{format: "pretty"},
		{format: "", json: true},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&Config{
				Level:   "debug",
				Format:  tt.format,
				Service: "go-error-filters",
				Version: "1.0.0",
			}, &buf)

			logger.Debug("rendering message", slog.String("key", "http.clientError.notFound"))

			out := buf.String()
			assert.Contains(t, out, "rendering message")
			assert.Contains(t, out, "http.clientError.notFound")

			if tt.json {
				entry := decode(t, &buf)
				assert.Equal(t, "go-error-filters", entry["service_name"])
				assert.Equal(t, "1.0.0", entry["service_version"])
			}
		})
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)

	logger.Log(context.Background(), LevelTrace, "lookup")

	assert.Contains(t, buf.String(), "lookup")
}

func TestNewWithWriter_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	var buf bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:  "info",
		Format: "pretty",
		File: FileConfig{
			Enabled:    true,
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 1,
			MaxAgeDays: 1,
		},
	}, &buf)

	logger.Info("written twice", slog.String("password", "hunter2"))

	assert.Contains(t, buf.String(), "written twice")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "written twice")
	assert.NotContains(t, string(content), "hunter2")
	assert.True(t, json.Valid(bytes.TrimSpace(content)), "file lines are JSON")
}

func TestConfigFrom(t *testing.T) {
	app := config.AppConfig{Name: "go-error-filters", Version: "1.2.3", Environment: "prod"}
	lc := config.LogConfig{
		Level:  "debug",
		Format: "pretty",
		File: config.LogFileConfig{
			Enabled:    true,
			Path:       "/tmp/app.log",
			MaxSizeMB:  10,
			MaxBackups: 2,
			MaxAgeDays: 5,
			Compress:   true,
		},
	}

	assert.Equal(t, &Config{
		Level:   "debug",
		Format:  "pretty",
		Service: "go-error-filters",
		Version: "1.2.3",
		File: FileConfig{
			Enabled:    true,
			Path:       "/tmp/app.log",
			MaxSizeMB:  10,
			MaxBackups: 2,
			MaxAgeDays: 5,
			Compress:   true,
		},
	}, ConfigFrom(app, lc))
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, parseLevel(input), "input %q", input)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := map[slog.Level]log.Level{
		slog.Level(-12): log.DebugLevel,
		LevelTrace:      log.DebugLevel,
		slog.LevelDebug: log.DebugLevel,
		slog.LevelInfo:  log.InfoLevel,
		slog.LevelWarn:  log.WarnLevel,
		slog.LevelError: log.ErrorLevel,
		slog.Level(12):  log.ErrorLevel,
	}

	for input, want := range tests {
		assert.Equal(t, want, slogToCharmLevel(input), "level %v", input)
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	debug := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	errOnly := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})

	assert.True(t, NewMultiHandler(debug, errOnly).Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, NewMultiHandler(errOnly, errOnly).Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_Handle(t *testing.T) {
	var debugBuf, infoBuf bytes.Buffer

	logger := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	))

	logger.Info("both")
	assert.Contains(t, debugBuf.String(), "both")
	assert.Contains(t, infoBuf.String(), "both")

	debugBuf.Reset()
	infoBuf.Reset()

	logger.Debug("debug only")
	assert.Contains(t, debugBuf.String(), "debug only")
	assert.Empty(t, infoBuf.String())
}

type failingHandler struct {
	slog.Handler
	err error
}

func (h failingHandler) Handle(context.Context, slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	return h.err
}

func TestMultiHandler_HandleJoinsErrors(t *testing.T) {
	var buf bytes.Buffer

	errA := errors.New("disk full")
	errB := errors.New("pipe closed")

	multi := NewMultiHandler(
		failingHandler{Handler: slog.NewJSONHandler(io.Discard, nil), err: errA},
		slog.NewJSONHandler(&buf, nil),
		failingHandler{Handler: slog.NewJSONHandler(io.Discard, nil), err: errB},
	)

	err := multi.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still written", 0))

	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, buf.String(), "still written")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	multi := NewMultiHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))
	logger := slog.New(multi.WithAttrs([]slog.Attr{slog.String("language", "fr")}).WithGroup("exception"))

	logger.Info("translated", slog.Int("status", 404))

	for _, buf := range []*bytes.Buffer{&buf1, &buf2} {
		entry := decode(t, buf)
		assert.Equal(t, "fr", entry["language"])
		assert.Equal(t, map[string]any{"status": float64(404)}, entry["exception"])
	}
}

func TestNewReplaceAttr(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  string
		redact bool
	}{
		{"password", "password", "secret123", true},
		{"token", "token", "my-secret-token", true},
		{"api key", "api_key", "api-key-value", true},
		{"authorization", "authorization", "Bearer token123", true},
		{"secret prefix", "secret_config", "sensitive-data", true},
		{"private prefix", "privateNote", "do-not-log", true},
		{"interpolated email", "email", "ada@example.com", true},
		{"interpolated phone", "phone", "+33600000000", true},
		{"bearer value under any name", "header", "Bearer abc123xyz456", true},
		{"jwt value under any name", "value", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig", true},
		{"message key", "key", "http.clientError.notFound", false},
		{"language", "language", "fr,en", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()}))

			logger.Info("test", slog.String(tt.field, tt.value))

			out := buf.String()
			assert.Contains(t, out, tt.field)

			if tt.redact {
				assert.NotContains(t, out, tt.value)
			} else {
				assert.Contains(t, out, tt.value)
			}
		})
	}
}

func TestNewReplaceAttr_ExtraOptions(t *testing.T) {
	var buf bytes.Buffer
	replace := NewReplaceAttr(masq.WithFieldName("iban"))
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replace}))

	logger.Info("test", slog.String("iban", "FR7630006000011234567890189"), slog.String("password", "pw"))

	assert.NotContains(t, buf.String(), "FR7630006000011234567890189")
	assert.NotContains(t, buf.String(), `"pw"`)
}
