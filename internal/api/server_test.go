package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/five82/daylog/internal/logstore"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type response struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Levels    []string        `json:"levels"`
	Partition string          `json:"partition"`
	Message   string          `json:"message"`
}

func newTestServer(t *testing.T, tokenHash string) (*httptest.Server, *logstore.Store) {
	t.Helper()
	store, err := logstore.New(logstore.Options{
		Dir:          filepath.Join(t.TempDir(), "logs"),
		Clock:        func() time.Time { return fixedNow },
		MaxReadLines: 50,
	})
	if err != nil {
		t.Fatalf("logstore.New returned error: %v", err)
	}
	srv, err := New(Options{Store: store, TokenHash: tokenHash})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func get(t *testing.T, url string, header http.Header) (*http.Response, response) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp, payload
}

func decodeStrings(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return out
}

func TestServer_ListAndReadToday(t *testing.T) {
	ts, store := newTestServer(t, "")
	store.Record(logstore.LevelInfo, "start")
	store.Record(logstore.LevelError, "fail X")

	if err := os.WriteFile(filepath.Join(store.Dir(), "2025-03-01.log"), []byte("[x] [INFO] old\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, list := get(t, ts.URL+"/logs", nil)
	if !list.Success {
		t.Fatalf("GET /logs success = false: %q", list.Message)
	}
	ids := decodeStrings(t, list.Data)
	if len(ids) != 2 || ids[0] != "2025-03-10" || ids[1] != "2025-03-01" {
		t.Fatalf("GET /logs data = %v, want [2025-03-10 2025-03-01]", ids)
	}

	_, today := get(t, ts.URL+"/logs/today", nil)
	lines := decodeStrings(t, today.Data)
	if len(lines) != 3 {
		t.Fatalf("GET /logs/today returned %d lines, want 3: %v", len(lines), lines)
	}
	if !strings.Contains(lines[1], "[ERROR]") || !strings.Contains(lines[1], "fail X") {
		t.Fatalf("line 1 = %q, want [ERROR] fail X", lines[1])
	}
	if !strings.Contains(lines[2], "[REQUEST] [GET] /logs 200") {
		t.Fatalf("line 2 = %q, want request record for GET /logs", lines[2])
	}
	wantLevels := []string{"info", "error", "request"}
	if strings.Join(today.Levels, ",") != strings.Join(wantLevels, ",") {
		t.Fatalf("levels = %v, want %v", today.Levels, wantLevels)
	}
	if today.Partition != "2025-03-10" {
		t.Fatalf("partition = %q, want 2025-03-10", today.Partition)
	}
}

func TestServer_ReadDateAndLinesParam(t *testing.T) {
	ts, store := newTestServer(t, "")
	var body strings.Builder
	for i := 1; i <= 80; i++ {
		fmt.Fprintf(&body, "[2025-03-09T00:00:00.000Z] [WARN] line %d\n", i)
	}
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "2025-03-09.log"), []byte(body.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		query     string
		wantCount int
		wantFirst string
	}{
		{"?lines=5", 5, "line 76"},
		{"?lines=500", 50, "line 31"},
		{"?lines=bogus", 50, "line 31"},
		{"", 50, "line 31"},
	}
	for _, tt := range tests {
		_, res := get(t, ts.URL+"/logs/2025-03-09"+tt.query, nil)
		lines := decodeStrings(t, res.Data)
		if len(lines) != tt.wantCount {
			t.Fatalf("query %q returned %d lines, want %d", tt.query, len(lines), tt.wantCount)
		}
		if !strings.HasSuffix(lines[0], tt.wantFirst) {
			t.Fatalf("query %q first line = %q, want suffix %q", tt.query, lines[0], tt.wantFirst)
		}
	}
}

func TestServer_MissingDateIsSuccess(t *testing.T) {
	ts, _ := newTestServer(t, "")
	resp, res := get(t, ts.URL+"/logs/2099-01-01?lines=100", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !res.Success || res.Message == "" {
		t.Fatalf("response = %+v, want success with message", res)
	}
	if string(res.Data) != "[]" {
		t.Fatalf("data = %s, want []", res.Data)
	}
}

func TestServer_ReadErrors(t *testing.T) {
	ts, store := newTestServer(t, "")
	if err := os.MkdirAll(filepath.Join(store.Dir(), "2025-03-02.log"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	resp, res := get(t, ts.URL+"/logs/2025-03-02", nil)
	if resp.StatusCode != http.StatusInternalServerError || res.Success || res.Message == "" {
		t.Fatalf("read of directory = %d %+v, want 500 failure with message", resp.StatusCode, res)
	}

	resp, res = get(t, ts.URL+`/logs/a%5Cb`, nil)
	if resp.StatusCode != http.StatusBadRequest || res.Success {
		t.Fatalf("invalid id = %d %+v, want 400 failure", resp.StatusCode, res)
	}
}

func TestServer_BearerAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	ts, _ := newTestServer(t, string(hash))

	resp, res := get(t, ts.URL+"/logs", nil)
	if resp.StatusCode != http.StatusUnauthorized || res.Success {
		t.Fatalf("no token = %d %+v, want 401", resp.StatusCode, res)
	}
	resp, _ = get(t, ts.URL+"/logs", http.Header{"Authorization": {"Bearer wrong"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d, want 401", resp.StatusCode)
	}
	for i := 0; i < 2; i++ {
		resp, res = get(t, ts.URL+"/logs/today", http.Header{"Authorization": {"Bearer s3cret"}})
		if resp.StatusCode != http.StatusOK || !res.Success {
			t.Fatalf("good token = %d %+v, want 200", resp.StatusCode, res)
		}
	}
	resp, _ = get(t, ts.URL+"/logs?token=s3cret", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("query token status = %d, want 200", resp.StatusCode)
	}
	resp, _ = get(t, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200 without token", resp.StatusCode)
	}
}

func TestServer_RequestIDAndHealth(t *testing.T) {
	ts, _ := newTestServer(t, "")

	resp, res := get(t, ts.URL+"/healthz", nil)
	if resp.Header.Get(requestIDHeader) == "" {
		t.Fatalf("missing %s header", requestIDHeader)
	}
	var faults logstore.FaultSnapshot
	if err := json.Unmarshal(res.Data, &faults); err != nil {
		t.Fatalf("decode faults: %v", err)
	}
	if faults.WriteFaults != 0 || faults.SweepFaults != 0 {
		t.Fatalf("faults = %+v, want zero", faults)
	}

	resp, _ = get(t, ts.URL+"/healthz", http.Header{requestIDHeader: {"abc-123"}})
	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("%s = %q, want abc-123", requestIDHeader, got)
	}
}

func TestServer_CompressesLargeReads(t *testing.T) {
	ts, store := newTestServer(t, "")
	for i := 0; i < 40; i++ {
		store.Record(logstore.LevelInfo, strings.Repeat("payload ", 10))
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/logs/today", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
}

func TestNew_RequiresStore(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("New without store returned nil error")
	}
}

func TestParseLines(t *testing.T) {
	store, err := logstore.New(logstore.Options{
		Dir:              filepath.Join(t.TempDir(), "logs"),
		MaxReadLines:     50,
		DefaultReadLines: 25,
	})
	if err != nil {
		t.Fatalf("logstore.New returned error: %v", err)
	}
	srv, err := New(Options{Store: store})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tests := map[string]int{
		"":           25,
		"?lines=7":   7,
		"?lines=0":   0,
		"?lines=-3":  25,
		"?lines=x":   25,
		"?lines=900": 900,
	}
	for query, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/logs/today"+query, nil)
		if got := srv.parseLines(r); got != want {
			t.Fatalf("parseLines(%q) = %d, want %d", query, got, want)
		}
	}
}
