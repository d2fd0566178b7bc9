package logging

import (
	"bytes"
	"encoding/json"
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
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("info", "json", &buf); err != nil {
		t.Fatalf("Init: %v", err)
	}
	slog.Info("hello", "k", "v")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["k"] != "v" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("warn", "text", &buf); err != nil {
		t.Fatalf("Init: %v", err)
	}
	slog.Info("quiet")
	slog.Warn("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info line emitted at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn line missing")
	}
}

func TestInit_BadLevel(t *testing.T) {
	if err := Init("shout", "text", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_ComponentAttr(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("info", "text", &buf); err != nil {
		t.Fatalf("Init: %v", err)
	}
	New("batch").Info("run started")
	if !strings.Contains(buf.String(), "component=batch") {
		t.Errorf("missing component attribute: %s", buf.String())
	}
}
