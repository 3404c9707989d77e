package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/serikabot/serika/internal/healthcheck"
)

type staticChecker []healthcheck.CheckResult

func (c staticChecker) ListChecks(context.Context) []healthcheck.CheckResult { return c }

func testStatus() StatusInfo {
	return StatusInfo{
		Version:        "1.2.3",
		Commit:         "abcdef0",
		Platform:       "discord",
		BotName:        "Serika",
		StartedAt:      time.Now().Add(-time.Minute),
		Sessions:       2,
		ActiveChannels: []string{"c1", "c2"},
	}
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	t.Parallel()

	srv := NewServer(":0", staticChecker{}, testStatus, nil)
	rec := get(t, srv, "/ping")
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Fatalf("ping = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		checks     staticChecker
		wantCode   int
		wantStatus string
	}{
		{
			name: "healthy",
			checks: staticChecker{
				{ID: "gateway", Status: healthcheck.StatusOK},
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "degraded warns",
			checks: staticChecker{
				{ID: "model", Status: healthcheck.StatusWarn},
			},
			wantCode:   http.StatusOK,
			wantStatus: "warn",
		},
		{
			name: "gateway down",
			checks: staticChecker{
				{ID: "gateway", Status: healthcheck.StatusError},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := NewServer(":0", tt.checks, testStatus, nil)
			rec := get(t, srv, "/health")
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			var body struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", body.Status, tt.wantStatus)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	srv := NewServer(":0", staticChecker{}, testStatus, nil)
	rec := get(t, srv, "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}

	var body struct {
		Version        string   `json:"version"`
		BotName        string   `json:"bot_name"`
		Uptime         int      `json:"uptime_seconds"`
		Sessions       int      `json:"sessions"`
		ActiveChannels []string `json:"active_channels"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Version != "1.2.3" || body.BotName != "Serika" || body.Sessions != 2 {
		t.Fatalf("unexpected status body: %+v", body)
	}
	if len(body.ActiveChannels) != 2 {
		t.Fatalf("active channels = %v", body.ActiveChannels)
	}
	if body.Uptime < 59 {
		t.Fatalf("uptime should reflect start time, got %d", body.Uptime)
	}
}
