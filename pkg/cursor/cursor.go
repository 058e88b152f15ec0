// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package cursor implements the opaque keyset-pagination cursor codec.
//
// # Format
//
// A cursor is the pair (created_at, id) rendered as
//
//	base64url_no_pad("<rfc3339-nanos-utc>:<id>")
//
// The timestamp is always normalized to UTC before encoding, so the same
// (created_at, id) pair round-trips to the same string on any host
// regardless of the process timezone. Cursors are derived, never stored.
package cursor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadCursor is returned when a cursor string cannot be decoded.
//
// It covers invalid base64url, a missing ":" separator, and an
// unparseable timestamp.
var ErrBadCursor = errors.New("cursor: malformed cursor")

// Encode renders (createdAt, id) as an opaque cursor string.
func Encode(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + ":" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode reverses [Encode].
//
// The returned timestamp is in UTC. Any structural failure is reported as
// [ErrBadCursor] with the underlying cause wrapped for logging.
func Decode(encoded string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrBadCursor, err)
	}

	// The id alphabet never contains ":", so the first separator splits
	// the timestamp from the id even though RFC-3339 itself uses colons.
	// Split from the right: the id is the last segment.
	idx := strings.LastIndex(string(raw), ":")
	if idx < 0 {
		return time.Time{}, "", fmt.Errorf("%w: missing separator", ErrBadCursor)
	}

	timestamp, id := string(raw[:idx]), string(raw[idx+1:])
	if id == "" {
		return time.Time{}, "", fmt.Errorf("%w: empty id", ErrBadCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrBadCursor, err)
	}

	return createdAt.UTC(), id, nil
}
