package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"WARN", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	if err := Initialize(Config{Level: WarnLevel, Component: "test"}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("should be filtered")
	Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Errorf("info message leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestJSONOutput(t *testing.T) {
	if err := Initialize(Config{Level: InfoLevel, JSON: true, Component: "test"}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("structured", String("key", "value"), Int("count", 3))

	var e struct {
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Component string                 `json:"component"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if e.Level != "INFO" || e.Message != "structured" || e.Component != "test" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Fields["key"] != "value" {
		t.Errorf("missing string field: %+v", e.Fields)
	}
}
