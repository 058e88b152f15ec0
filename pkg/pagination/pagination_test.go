// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/emporia/pkg/pagination"
	"github.com/taibuivan/emporia/pkg/pointer"
)

/*
TestParams_Validate walks the full combination table from the Relay
connection contract.
*/
func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  pagination.Params
		wantErr error
	}{
		{"first_only", pagination.Forward(10, nil), nil},
		{"first_after", pagination.Forward(10, pointer.To("c")), nil},
		{"last_only", pagination.Backward(10, nil), nil},
		{"last_before", pagination.Backward(10, pointer.To("c")), nil},
		{"neither", pagination.Params{}, pagination.ErrMissingCount},
		{"both_counts", pagination.Params{First: pointer.To(int32(1)), Last: pointer.To(int32(1))}, pagination.ErrBothCounts},
		{"last_with_after", pagination.Params{Last: pointer.To(int32(2)), After: pointer.To("x")}, pagination.ErrAfterWithLast},
		{"first_with_before", pagination.Params{First: pointer.To(int32(2)), Before: pointer.To("x")}, pagination.ErrBeforeWithFirst},
		{"zero_first", pagination.Forward(0, nil), pagination.ErrNonPositiveCount},
		{"negative_last", pagination.Backward(-3, nil), pagination.ErrNonPositiveCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

/*
TestParams_Count checks query-limit clamping in both directions.
*/
func TestParams_Count(t *testing.T) {
	assert.Equal(t, int32(10), pagination.Forward(10, nil).Count(100))
	assert.Equal(t, int32(100), pagination.Forward(500, nil).Count(100))
	assert.Equal(t, int32(100), pagination.Backward(101, nil).Count(100))
	assert.Equal(t, int32(7), pagination.Backward(7, nil).Count(100))
}

func TestParams_Direction(t *testing.T) {
	forward := pagination.Forward(5, pointer.To("abc"))
	backward := pagination.Backward(5, pointer.To("xyz"))

	assert.True(t, forward.IsForward())
	assert.False(t, backward.IsForward())

	require.NotNil(t, forward.Cursor())
	assert.Equal(t, "abc", *forward.Cursor())
	require.NotNil(t, backward.Cursor())
	assert.Equal(t, "xyz", *backward.Cursor())
	assert.Nil(t, pagination.Forward(5, nil).Cursor())
}
