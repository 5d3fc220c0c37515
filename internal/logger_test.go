package internal

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_ProdEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "prod", slog.LevelInfo)

	logger.Info("order placed", "order_id", "abc")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("prod log line is not JSON: %v", err)
	}
	if record["msg"] != "order placed" {
		t.Errorf("msg = %v", record["msg"])
	}
	if _, ok := record["time"].(string); !ok {
		t.Error("time attribute missing or not a string")
	}
}

func TestNewLogger_DevEmitsText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "development", slog.LevelWarn)

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info line emitted below the configured level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn line missing")
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("dev output should be text, not JSON")
	}
}
