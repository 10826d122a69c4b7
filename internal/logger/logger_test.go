package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"DBG", slog.LevelDebug, true},
		{"wrn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := levelFromString(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("levelFromString(%q): expected %v/%v, got %v/%v", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New("info", "json", &buf).Info("hello", "file", "a.pdf")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"file":"a.pdf"`) {
		t.Errorf("expected JSON record, got %q", buf.String())
	}

	buf.Reset()
	New("info", "text", &buf).Info("hello", "file", "a.pdf")
	if !strings.Contains(buf.String(), "file=a.pdf") {
		t.Errorf("expected text record, got %q", buf.String())
	}
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "json", &buf)
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered, got %q", buf.String())
	}
	if !log.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error level to be enabled")
	}
}
