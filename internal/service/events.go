// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic for posts, content generation, and
// the audit event trail.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/roteiro-cms/roteiro/internal/geoip"
	"github.com/roteiro-cms/roteiro/internal/model"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// EventService provides audit event logging.
type EventService struct {
	queries *store.Queries
	geo     *geoip.Lookup // optional, may be nil
}

// NewEventService creates a new EventService.
// The geo lookup is optional; pass nil to skip country enrichment.
func NewEventService(db *sql.DB, geo *geoip.Lookup) *EventService {
	return &EventService{
		queries: store.New(db),
		geo:     geo,
	}
}

// LogEvent creates a new audit event entry.
// userID 0 means anonymous.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID int64, ipAddress string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    userID,
		IPAddress: ipAddress,
		Metadata:  metadataJSON,
	})
	if err != nil {
		slog.Error("failed to log event", "category", category, "error", err)
		return err
	}

	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, userID, ipAddress, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, userID, ipAddress, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, userID, ipAddress, metadata)
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAuth, message, userID, ipAddress, metadata)
}

// LogPostEvent logs a post-related event.
func (s *EventService) LogPostEvent(ctx context.Context, level, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryPost, message, userID, ipAddress, metadata)
}

// LogUserEvent logs a user-related event.
func (s *EventService) LogUserEvent(ctx context.Context, level, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryUser, message, userID, ipAddress, metadata)
}

// LogHotelEvent logs a hotel-related event.
func (s *EventService) LogHotelEvent(ctx context.Context, level, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryHotel, message, userID, ipAddress, metadata)
}

// LogAIEvent logs a content-generation event.
func (s *EventService) LogAIEvent(ctx context.Context, level, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategoryAI, message, userID, ipAddress, metadata)
}

// LogSystemEvent logs a system-related event.
func (s *EventService) LogSystemEvent(ctx context.Context, level, message string, userID int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.EventCategorySystem, message, userID, ipAddress, metadata)
}

// RequestMeta builds event metadata from an HTTP request: parsed user agent,
// device class, and country when GeoIP is available.
func (s *EventService) RequestMeta(r *http.Request, ipAddress string) map[string]any {
	meta := map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
	}

	if uaString := r.UserAgent(); uaString != "" {
		ua := useragent.Parse(uaString)

		browser := ua.Name
		if browser == "" {
			browser = "Unknown"
		}
		osName := ua.OS
		if osName == "" {
			osName = "Unknown"
		}

		device := "desktop"
		switch {
		case ua.Mobile:
			device = "mobile"
		case ua.Tablet:
			device = "tablet"
		case ua.Bot:
			device = "bot"
		}

		meta["browser"] = browser
		meta["os"] = osName
		meta["device"] = device
	}

	if s.geo != nil {
		if country := s.geo.LookupCountry(ipAddress); country != "" {
			meta["country"] = country
		}
	}

	return meta
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return s.queries.DeleteOldEvents(ctx, cutoff)
}
