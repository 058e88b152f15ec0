// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cursor_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/emporia/pkg/cursor"
)

/*
TestCursor_RoundTrip verifies that Decode(Encode(t, id)) recovers the
original pair for a variety of timestamps and ids.
*/
func TestCursor_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		createdAt time.Time
		id        string
	}{
		{"nanosecond_precision", time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC), "v5w2x8y3z4a6b7c8d9e2f"},
		{"second_precision", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "abcdefghijklmnopqrstu"},
		{"id_with_dash_and_underscore", time.Date(2025, 12, 31, 23, 59, 59, 999999999, time.UTC), "a-b_c2d3e4f5g6h7i8j9k"},
		{"epoch", time.Unix(0, 0).UTC(), "222222222222222222222"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := cursor.Encode(tt.createdAt, tt.id)

			createdAt, id, err := cursor.Decode(encoded)
			require.NoError(t, err)

			assert.True(t, createdAt.Equal(tt.createdAt))
			assert.Equal(t, tt.id, id)
		})
	}
}

/*
TestCursor_EncodeIsTimezoneIndependent ensures the rendered cursor never
leaks the process timezone: a non-UTC time encodes identically to its UTC
equivalent.
*/
func TestCursor_EncodeIsTimezoneIndependent(t *testing.T) {
	zone := time.FixedZone("UTC+7", 7*60*60)
	local := time.Date(2026, 6, 1, 19, 30, 0, 0, zone)

	assert.Equal(t, cursor.Encode(local.UTC(), "abc"), cursor.Encode(local, "abc"))
}

/*
TestCursor_Decode_Malformed checks every rejection branch of the decoder.
*/
func TestCursor_Decode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not_base64url", "!!!not-base64!!!"},
		{"padded_base64", base64.URLEncoding.EncodeToString([]byte("x"))},
		{"missing_separator", base64.RawURLEncoding.EncodeToString([]byte("no-separator-here"))},
		{"empty_id", base64.RawURLEncoding.EncodeToString([]byte("2026-01-01T00:00:00Z:"))},
		{"bad_timestamp", base64.RawURLEncoding.EncodeToString([]byte("yesterday:someid"))},
		{"empty_string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := cursor.Decode(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, cursor.ErrBadCursor)
		})
	}
}
