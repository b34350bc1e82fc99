// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package slug

import (
	"context"
	"errors"
	"fmt"
)

// ScopeGlobal is the default uniqueness scope: one namespace for the whole
// deployment. Public post URLs carry no hotel segment, so per-hotel slugs
// would collide on the public surface.
const ScopeGlobal int64 = 0

// maxAttempts bounds the suffix search. Hitting it means the slug table holds
// thousands of entries for one candidate, which signals a data anomaly
// upstream, so we fail loudly instead of looping.
const maxAttempts = 10000

// insertRetries bounds retries of the insert path when a concurrent writer
// takes the candidate between our existence check and the write.
const insertRetries = 3

// ErrAllocationExhausted is returned when the sequential suffix search
// exceeds its safety ceiling.
var ErrAllocationExhausted = errors.New("slug: allocation exhausted")

// ExistsFunc reports whether a slug is already taken within the scope.
// excludeID, when non-zero, identifies a row to ignore so an update does not
// collide with itself.
type ExistsFunc func(ctx context.Context, slug string, scope int64, excludeID int64) (bool, error)

// IsUniqueViolation reports whether err is a storage uniqueness-constraint
// error. The allocator treats those as "candidate taken, try the next suffix".
type IsUniqueViolation func(err error) bool

// Allocator assigns unique slugs within a scope. It never touches storage
// directly; the existence query is injected so the allocator can be exercised
// against an in-memory fake.
type Allocator struct {
	exists ExistsFunc
}

// NewAllocator creates an Allocator using the given existence query.
func NewAllocator(exists ExistsFunc) *Allocator {
	return &Allocator{exists: exists}
}

// Allocate returns candidate if it is free within scope, otherwise
// candidate-N for the smallest N >= 1 not in use. excludeID lets an update
// re-check uniqueness while ignoring the post's own row.
func (a *Allocator) Allocate(ctx context.Context, candidate string, scope int64, excludeID int64) (string, error) {
	for n := 0; n <= maxAttempts; n++ {
		s := candidate
		if n > 0 {
			s = fmt.Sprintf("%s-%d", candidate, n)
		}

		taken, err := a.exists(ctx, s, scope, excludeID)
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", s, err)
		}
		if !taken {
			return s, nil
		}
	}

	return "", fmt.Errorf("%w: candidate %q", ErrAllocationExhausted, candidate)
}

// AllocateForInsert allocates a slug and runs insert with it. The existence
// check and the write are not atomic, so a concurrent creation with the same
// candidate can still hit the storage uniqueness constraint; in that case the
// allocation is retried from the next suffix instead of surfacing the
// constraint error. The storage constraint stays the authoritative guard.
func (a *Allocator) AllocateForInsert(
	ctx context.Context,
	candidate string,
	scope int64,
	isUniqueViolation IsUniqueViolation,
	insert func(ctx context.Context, slug string) error,
) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= insertRetries; attempt++ {
		s, err := a.Allocate(ctx, candidate, scope, 0)
		if err != nil {
			return "", err
		}

		err = insert(ctx, s)
		if err == nil {
			return s, nil
		}
		if !isUniqueViolation(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: candidate %q lost %d insert races: %v",
		ErrAllocationExhausted, candidate, insertRetries+1, lastErr)
}
