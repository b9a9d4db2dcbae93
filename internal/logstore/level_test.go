package logstore

import (
	"encoding/json"
	"testing"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want Level
	}{
		{"[2025-03-10T12:00:00.000Z] [INFO] started", LevelInfo},
		{"[2025-03-10T12:00:00.000Z] [WARN] slow", LevelWarn},
		{"[2025-03-10T12:00:00.000Z] [ERROR] boom", LevelError},
		{"[2025-03-10T12:00:00.000Z] [REQUEST] [GET] /logs 200 1ms", LevelRequest},
		{"[2025-03-10T12:00:00.000Z] [POST] /admin/tokens 201 4ms", LevelRequest},
		{"[2025-03-10T12:00:00.000Z] [info] lower-case tag", LevelUnknown},
		{"[2025-03-10T12:00:00.000Z] [DEBUG] not in the set", LevelUnknown},
		{"plain text mentioning [ERROR] inside", LevelUnknown},
		{"", LevelUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyLine(tt.line); got != tt.want {
			t.Fatalf("ClassifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]Level{
		"info": LevelInfo, "WARN": LevelWarn, " warning ": LevelWarn,
		"Error": LevelError, "request": LevelRequest,
	} {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseLevel("fatal"); err == nil {
		t.Fatalf("ParseLevel(fatal) returned nil error")
	}
}

func TestLevel_JSONUsesNames(t *testing.T) {
	encoded, err := json.Marshal([]Level{LevelInfo, LevelRequest, LevelUnknown})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != `["info","request","unknown"]` {
		t.Fatalf("Marshal = %s, want names", encoded)
	}

	var decoded []Level
	if err := json.Unmarshal([]byte(`["warn","bogus"]`), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != LevelWarn || decoded[1] != LevelUnknown {
		t.Fatalf("Unmarshal = %v, want [warn unknown]", decoded)
	}
	if LevelError.Tag() != "ERROR" {
		t.Fatalf("Tag = %q, want ERROR", LevelError.Tag())
	}
}
