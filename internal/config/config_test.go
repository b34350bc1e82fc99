// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ROTEIRO_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/roteiro.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/roteiro.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.AIEnabled() {
		t.Error("AIEnabled() = true without API key")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() = true without Redis URL")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ROTEIRO_SESSION_SECRET", "custom-secret-key-32-bytes-long!")
	setEnv(t, "ROTEIRO_DB_PATH", "/custom/path.db")
	setEnv(t, "ROTEIRO_SERVER_HOST", "0.0.0.0")
	setEnv(t, "ROTEIRO_SERVER_PORT", "3000")
	setEnv(t, "ROTEIRO_ENV", "production")
	setEnv(t, "ROTEIRO_AI_API_KEY", "gsk_test")
	setEnv(t, "ROTEIRO_AI_BASE_URL", "https://api.openai.com/v1/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if !cfg.AIEnabled() {
		t.Error("AIEnabled() = false with API key set")
	}
	if cfg.AIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("AIBaseURL = %q, trailing slash not trimmed", cfg.AIBaseURL)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded without ROTEIRO_SESSION_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "ROTEIRO_SESSION_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a secret shorter than 32 bytes")
	}
}
