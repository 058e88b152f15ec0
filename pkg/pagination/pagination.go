// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the shared Relay-style keyset pagination
// parameters used by API list operations.
//
// # Overview
//
// Callers page with a mandatory count (first:N forward, last:N backward)
// and an optional opaque cursor (after:C with first, before:C with last).
// Paging by cursor comparison instead of OFFSET keeps results stable under
// concurrent inserts.
package pagination

import "errors"

// Validation failures. Services translate these into client-facing
// validation errors.
var (
	// ErrMissingCount is returned when neither first nor last is supplied.
	ErrMissingCount = errors.New("pagination: either first or last is required")
	// ErrBothCounts is returned when first and last are both supplied.
	ErrBothCounts = errors.New("pagination: first and last are mutually exclusive")
	// ErrAfterWithLast is returned for the invalid (last, after) combination.
	ErrAfterWithLast = errors.New("pagination: after cannot be combined with last")
	// ErrBeforeWithFirst is returned for the invalid (first, before) combination.
	ErrBeforeWithFirst = errors.New("pagination: before cannot be combined with first")
	// ErrNonPositiveCount is returned when first or last is zero or negative.
	ErrNonPositiveCount = errors.New("pagination: count must be positive")
)

// Params holds one request's pagination inputs.
//
// Exactly one of First/Last must be set. After pairs with First, Before
// with Last. The struct is JSON-serializable because it travels inside
// cache-refresh events to make listing cache keys reproducible.
type Params struct {
	First  *int32  `json:"first,omitempty"`
	Last   *int32  `json:"last,omitempty"`
	After  *string `json:"after,omitempty"`
	Before *string `json:"before,omitempty"`
}

// Forward builds forward-paging params (first:n, after:cursor?).
func Forward(n int32, after *string) Params {
	return Params{First: &n, After: after}
}

// Backward builds backward-paging params (last:n, before:cursor?).
func Backward(n int32, before *string) Params {
	return Params{Last: &n, Before: before}
}

// Validate checks the combination rules.
func (p Params) Validate() error {
	switch {
	case p.First != nil && p.Last != nil:
		return ErrBothCounts
	case p.First == nil && p.Last == nil:
		return ErrMissingCount
	case p.First != nil && *p.First <= 0:
		return ErrNonPositiveCount
	case p.Last != nil && *p.Last <= 0:
		return ErrNonPositiveCount
	case p.Last != nil && p.After != nil:
		return ErrAfterWithLast
	case p.First != nil && p.Before != nil:
		return ErrBeforeWithFirst
	}
	return nil
}

// IsForward reports whether the request pages forward (first:N).
//
// Only meaningful after [Params.Validate] has passed.
func (p Params) IsForward() bool {
	return p.First != nil
}

// Count returns the requested page size clamped to limit.
func (p Params) Count(limit int32) int32 {
	var n int32
	if p.First != nil {
		n = *p.First
	} else if p.Last != nil {
		n = *p.Last
	}

	if n > limit {
		return limit
	}
	return n
}

// Cursor returns the supplied cursor for either direction, or nil when the
// request starts from the relevant end of the collection.
func (p Params) Cursor() *string {
	if p.After != nil {
		return p.After
	}
	return p.Before
}
