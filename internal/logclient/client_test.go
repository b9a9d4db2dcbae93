package logclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/daylog/internal/api"
	"github.com/five82/daylog/internal/logstore"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_SendsHeadersAndQuery(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotAuth, gotLines, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		gotLines = r.URL.Query().Get("lines")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":["[t] [WARN] a","[t] [INFO] b"],"levels":["warn","info"],"partition":"2025-03-09"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "tok")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	batch, err := client.Read(context.Background(), "2025-03-09", 25)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if gotPath != "/logs/2025-03-09" || gotLines != "25" {
		t.Fatalf("request = %s?lines=%s, want /logs/2025-03-09?lines=25", gotPath, gotLines)
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q, want Bearer tok", gotAuth)
	}
	if batch.Partition != "2025-03-09" || len(batch.Lines) != 2 {
		t.Fatalf("batch = %+v", batch)
	}
	if batch.Levels[0] != logstore.LevelWarn || batch.Levels[1] != logstore.LevelInfo {
		t.Fatalf("levels = %v, want [warn info]", batch.Levels)
	}

	if _, err := client.Read(context.Background(), "", 0); err != nil {
		t.Fatalf("Read today returned error: %v", err)
	}
	if gotPath != "/logs/today" || gotLines != "" {
		t.Fatalf("request = %s?lines=%s, want /logs/today without lines", gotPath, gotLines)
	}
}

func TestClient_FallsBackToLocalClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":["[t] [ERROR] boom","plain"]}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	batch, err := client.Read(context.Background(), "today", 0)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if batch.Levels[0] != logstore.LevelError || batch.Levels[1] != logstore.LevelUnknown {
		t.Fatalf("levels = %v, want [error unknown]", batch.Levels)
	}
}

func TestClient_ReportsFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantSub string
	}{
		{"server error with message", http.StatusInternalServerError, `{"success":false,"message":"disk gone"}`, "disk gone"},
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"message":"unauthorized"}`, "status 401"},
		{"non-json error", http.StatusBadGateway, `oops`, "status 502"},
		{"success false", http.StatusOK, `{"success":false,"message":"nope"}`, "nope"},
		{"malformed", http.StatusOK, `{"success":`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			client, err := NewClient(server.URL, "")
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			_, err = client.ListPartitions(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("ListPartitions error = %v, want containing %q", err, tt.wantSub)
			}
		})
	}
}

func TestClient_AgainstRealServer(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	store, err := logstore.New(logstore.Options{
		Dir:   filepath.Join(t.TempDir(), "logs"),
		Clock: func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("logstore.New returned error: %v", err)
	}
	store.Warn("disk low")
	srv, err := api.New(api.Options{Store: store})
	if err != nil {
		t.Fatalf("api.New returned error: %v", err)
	}
	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ids, err := client.ListPartitions(context.Background())
	if err != nil {
		t.Fatalf("ListPartitions returned error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "2025-03-10" {
		t.Fatalf("ids = %v, want [2025-03-10]", ids)
	}

	batch, err := client.Read(context.Background(), "today", 1)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(batch.Lines) != 1 || batch.Levels[0] != logstore.LevelRequest {
		t.Fatalf("batch = %+v, want the request record for GET /logs", batch)
	}

	missing, err := client.Read(context.Background(), "2020-01-01", 0)
	if err != nil {
		t.Fatalf("Read missing returned error: %v", err)
	}
	if len(missing.Lines) != 0 || missing.Message == "" {
		t.Fatalf("missing batch = %+v, want empty lines with message", missing)
	}

	if _, err := client.Read(context.Background(), `a\b`, 0); err == nil {
		t.Fatalf("Read of invalid id returned nil error")
	}
}
