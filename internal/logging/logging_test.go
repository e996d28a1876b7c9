package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelWarn, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "actor_id", 42)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "kept" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestContextLogger(t *testing.T) {
	base := Discard()
	if FromContext(context.Background()) != nil {
		t.Fatal("expected no logger on empty context")
	}

	ctx := ContextWithLogger(context.Background(), base)
	if FromContext(ctx) != base {
		t.Fatal("expected stored logger")
	}
	if FromContextOr(context.Background(), base) != base {
		t.Fatal("expected fallback logger")
	}
	if FromContextOr(context.Background(), nil) != slog.Default() {
		t.Fatal("expected slog.Default fallback")
	}
}
