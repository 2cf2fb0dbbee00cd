package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d: %q", len(lines), buf.String())
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Failed to parse log line: %v", err)
	}
	if entry.Level != "WARN" {
		t.Errorf("Expected level WARN, got %s", entry.Level)
	}
	if entry.Message != "warn message" {
		t.Errorf("Expected message 'warn message', got %q", entry.Message)
	}
}

func TestJSONLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("edge grown",
		NodeID("node_3"),
		Edge("node_3", "node_7"),
		Cost(2.5),
	)

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log line: %v", err)
	}

	if entry.Fields["node_id"] != "node_3" {
		t.Errorf("Expected node_id field node_3, got %v", entry.Fields["node_id"])
	}
	if entry.Fields["edge"] != "node_3--node_7" {
		t.Errorf("Expected edge field node_3--node_7, got %v", entry.Fields["edge"])
	}
	if entry.Fields["cost"] != 2.5 {
		t.Errorf("Expected cost field 2.5, got %v", entry.Fields["cost"])
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("healing"))
	child.Info("repair complete", Count(2))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log line: %v", err)
	}

	if entry.Fields["component"] != "healing" {
		t.Errorf("Expected pre-set component field, got %v", entry.Fields)
	}
	if entry.Fields["count"] != float64(2) {
		t.Errorf("Expected count field 2, got %v", entry.Fields["count"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"ERROR":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
