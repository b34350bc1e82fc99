// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package authz turns verified identity claims into authorization decisions
// for post operations. The decision logic lives in one pure function so every
// handler enforces exactly the same rules.
package authz

import (
	"errors"

	"github.com/roteiro-cms/roteiro/internal/model"
)

// ErrUnauthenticated is returned when identity claims are absent or malformed.
var ErrUnauthenticated = errors.New("authz: unauthenticated")

// Action is an operation a caller wants to perform on a post or post collection.
type Action string

// Supported actions.
const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionListAll Action = "list_all"
)

// Claims are the verified identity claims produced by the session or API key
// layer. The zero value is an anonymous caller.
type Claims struct {
	PrincipalID int64
	Role        string
	HotelID     int64 // 0 means no hotel binding
}

// AuthContext is the resolved caller identity used for authorization decisions.
type AuthContext struct {
	PrincipalID int64
	Role        string
	HotelID     int64 // 0 for admins
}

// IsAdmin returns true if the caller has the admin role.
func (c AuthContext) IsAdmin() bool {
	return c.Role == model.RoleAdmin
}

// Target carries the attributes of the post (or collection) an action is
// aimed at. For Create and ListAll only HotelID is meaningful.
type Target struct {
	HotelID  int64
	AuthorID int64
}

// Decision is the outcome of an authorization check. Deny is a normal value,
// not an error; Reason is only set on denials and is meant for logging.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow is the positive decision.
var Allow = Decision{Allowed: true}

// Deny creates a negative decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// ResolveContext validates claims and produces an AuthContext.
// It fails with ErrUnauthenticated when the principal is missing, the role is
// unknown, or a hotel-bound role arrives without a hotel.
func ResolveContext(claims Claims) (AuthContext, error) {
	if claims.PrincipalID <= 0 {
		return AuthContext{}, ErrUnauthenticated
	}
	if !model.IsValidRole(claims.Role) {
		return AuthContext{}, ErrUnauthenticated
	}
	if claims.Role != model.RoleAdmin && claims.HotelID <= 0 {
		return AuthContext{}, ErrUnauthenticated
	}

	return AuthContext{
		PrincipalID: claims.PrincipalID,
		Role:        claims.Role,
		HotelID:     claims.HotelID,
	}, nil
}

// Authorize decides whether the caller may perform action on target.
// Rules are evaluated in order; the first match wins:
//
//  1. Admins may do everything.
//  2. Create is allowed for any caller bound to a hotel.
//  3. Read and ListAll are allowed within the caller's own hotel.
//  4. Update and Delete are allowed for editors within their hotel, and for
//     authors on their own posts within their hotel.
//  5. Everything else is denied.
//
// Anonymous reads of published posts do not go through this function; the
// public blog surface has its own query path.
func Authorize(ctx AuthContext, action Action, target Target) Decision {
	if ctx.Role == model.RoleAdmin {
		return Allow
	}

	switch action {
	case ActionCreate:
		if ctx.HotelID > 0 {
			return Allow
		}
		return Deny("create requires a hotel binding")

	case ActionRead, ActionListAll:
		if target.HotelID == ctx.HotelID {
			return Allow
		}
		return Deny("post belongs to another hotel")

	case ActionUpdate, ActionDelete:
		if target.HotelID != ctx.HotelID {
			return Deny("post belongs to another hotel")
		}
		if ctx.Role == model.RoleEditor {
			return Allow
		}
		if ctx.Role == model.RoleAuthor && target.AuthorID == ctx.PrincipalID {
			return Allow
		}
	}

	return Deny("insufficient role/tenant scope")
}
