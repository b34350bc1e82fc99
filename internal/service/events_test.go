package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/store"
	"github.com/roteiro-cms/roteiro/internal/testutil"
)

func TestEventService_LogEvent(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db, nil)
	ctx := context.Background()

	err := svc.LogAuthEvent(ctx, model.EventLevelWarning, "failed login", 0, "10.0.0.1",
		map[string]any{"email": "x@example.com"})
	if err != nil {
		t.Fatalf("LogAuthEvent: %v", err)
	}

	events, err := store.New(db).ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want %q", e.Level, model.EventLevelWarning)
	}
	if e.Category != model.EventCategoryAuth {
		t.Errorf("Category = %q, want %q", e.Category, model.EventCategoryAuth)
	}
	if e.IPAddress != "10.0.0.1" {
		t.Errorf("IPAddress = %q, want %q", e.IPAddress, "10.0.0.1")
	}
}

func TestEventService_RequestMeta(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")

	meta := svc.RequestMeta(req, "192.168.1.10")

	if meta["method"] != http.MethodPost {
		t.Errorf("method = %v, want POST", meta["method"])
	}
	if meta["path"] != "/api/auth/login" {
		t.Errorf("path = %v, want /api/auth/login", meta["path"])
	}
	if meta["device"] != "mobile" {
		t.Errorf("device = %v, want mobile", meta["device"])
	}
	if meta["os"] == "" || meta["os"] == "Unknown" {
		t.Errorf("os = %v, want detected OS", meta["os"])
	}
}

func TestEventService_RequestMetaNoUserAgent(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db, nil)

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	meta := svc.RequestMeta(req, "")

	if _, ok := meta["browser"]; ok {
		t.Error("browser should be absent without a User-Agent header")
	}
}
