package application

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/studio-scheduler/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLogger_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	contextLogger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logging.ContextWithLogger(context.Background(), contextLogger)

	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := serviceLogger(ctx, base, "CalendarService", "WeekView", "user_id", "user-1")
	logger.InfoContext(ctx, "assembled")

	out := buf.String()
	for _, fragment := range []string{"CalendarService", "WeekView", "user-1", "assembled"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected log output to contain %q, got %s", fragment, out)
		}
	}
}
