package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentStorage, Output: &buf})

	logger.Debug("hidden")
	logger.Info("User saved", FieldUserID, int64(3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, "component=storage") || !strings.Contains(out, "user_id=3") {
		t.Errorf("missing fields in %q", out)
	}
	if logger.Component() != ComponentStorage {
		t.Errorf("Component() = %q", logger.Component())
	}

	buf.Reset()
	logger.WithComponent(ComponentLedger).Warn("switched")
	if !strings.Contains(buf.String(), "component=ledger") {
		t.Errorf("WithComponent did not tag output: %q", buf.String())
	}
}

func TestLogFields(t *testing.T) {
	fields := NewFields().
		WithOperation(OpCreate).
		WithUser(7, "alice@example.com").
		WithPeriod(2024, 1)

	if fields[FieldOperation] != OpCreate || fields[FieldUserID] != int64(7) || fields[FieldYear] != 2024 {
		t.Fatalf("unexpected fields %v", fields)
	}
	if got := len(fields.ToSlice()); got != 2*len(fields) {
		t.Fatalf("ToSlice length = %d, want %d", got, 2*len(fields))
	}

	empty := NewFields().WithError(nil, "validation_error").WithUser(0, "")
	if len(empty) != 0 {
		t.Fatalf("nil error and zero user should add nothing, got %v", empty)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentCLI, Output: &buf})
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatal("FromContext did not return the stored logger")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("fallback component = %q", got.Component())
	}
}
