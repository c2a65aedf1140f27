package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Format: JSONFormat, Level: WarnLevel, Output: &buf})

	l.Debug("hidden", nil)
	l.Info("also hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output below configured level, got %q", buf.String())
	}

	l.Warn("visible", map[string]interface{}{"n": 1})
	var got entry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("failed to decode json line: %v", err)
	}
	if got.Level != "warn" || got.Message != "visible" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestLoggerHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})
	l.Info("scan complete", map[string]interface{}{"files": 3})

	if !strings.Contains(buf.String(), "scan complete") {
		t.Fatalf("expected message in human output, got %q", buf.String())
	}
}

func TestDiscardLogger(t *testing.T) {
	l := NewDiscardLogger()
	l.Error("should not panic", nil)
}
