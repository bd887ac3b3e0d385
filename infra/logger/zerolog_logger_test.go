package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestZerologLoggerJSONOutput(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	var buf bytes.Buffer
	l := newZerologLogger("simulator", &buf)
	l.Infof("run %s finished", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["component"] != "simulator" {
		t.Fatalf("missing component field: %v", entry)
	}
	if entry["message"] != "run abc finished" {
		t.Fatalf("unexpected message: %v", entry)
	}
}

func TestZerologLoggerStructuredFields(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	var buf bytes.Buffer
	l := newZerologLogger("simulator", &buf)
	l.Debugw("step recorded", map[string]any{"step": 3, "aggregate_kw": 21.5})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["step"] != float64(3) {
		t.Fatalf("missing structured field: %v", entry)
	}
}
