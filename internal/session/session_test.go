// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/roteiro-cms/roteiro/internal/testutil"
)

func TestNewDevMode(t *testing.T) {
	db := testutil.TestDB(t)

	sm := New(db, true)

	if sm.Cookie.Secure {
		t.Error("Cookie.Secure should be false in dev mode")
	}
	if sm.Store == nil {
		t.Error("Store should be initialized")
	}
}

func TestNewProductionMode(t *testing.T) {
	db := testutil.TestDB(t)

	sm := New(db, false)

	if !sm.Cookie.Secure {
		t.Error("Cookie.Secure should be true in production")
	}
}

func TestNewSessionSettings(t *testing.T) {
	db := testutil.TestDB(t)

	sm := New(db, true)

	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if sm.IdleTimeout != 2*time.Hour {
		t.Errorf("IdleTimeout = %v, want 2h", sm.IdleTimeout)
	}
	if sm.Cookie.Name != "roteiro_session" {
		t.Errorf("Cookie.Name = %q, want roteiro_session", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("Cookie.Path = %q, want /", sm.Cookie.Path)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("Cookie.HttpOnly should be true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", sm.Cookie.SameSite)
	}
}
