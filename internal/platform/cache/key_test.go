// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/emporia/internal/platform/cache"
	"github.com/taibuivan/emporia/pkg/pagination"
	"github.com/taibuivan/emporia/pkg/pointer"
)

func TestCategoryKey(t *testing.T) {
	assert.Equal(t, "categories:id=abc123", cache.CategoryKey("abc123"))
}

func TestListingKey(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		want   string
	}{
		{"forward_no_cursor", pagination.Forward(10, nil), "categories:all:cursor=[NONE]:index=first:10"},
		{"forward_with_cursor", pagination.Forward(5, pointer.To("Q3Vyc29y")), "categories:all:cursor=Q3Vyc29y:index=first:5"},
		{"backward_no_cursor", pagination.Backward(20, nil), "categories:all:cursor=[NONE]:index=last:20"},
		{"backward_with_cursor", pagination.Backward(3, pointer.To("ZW5k")), "categories:all:cursor=ZW5k:index=last:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cache.ListingKey(tt.params))
		})
	}
}

func TestSubListingKey(t *testing.T) {
	forward := pagination.Forward(10, nil)

	assert.Equal(t,
		"categories:subcategories:parent=p1:cursor=[NONE]:index=first:10",
		cache.SubListingKey(pointer.To("p1"), forward),
	)
	assert.Equal(t,
		"categories:subcategories:parent=[NONE]:cursor=[NONE]:index=first:10",
		cache.SubListingKey(nil, forward),
	)
}

/*
TestKey_Injectivity checks that any change to cursor, direction, count,
listing kind, or parent produces a distinct key.
*/
func TestKey_Injectivity(t *testing.T) {
	variants := []string{
		cache.ListingKey(pagination.Forward(10, nil)),
		cache.ListingKey(pagination.Forward(11, nil)),
		cache.ListingKey(pagination.Backward(10, nil)),
		cache.ListingKey(pagination.Forward(10, pointer.To("c1"))),
		cache.ListingKey(pagination.Forward(10, pointer.To("c2"))),
		cache.SubListingKey(nil, pagination.Forward(10, nil)),
		cache.SubListingKey(pointer.To("p1"), pagination.Forward(10, nil)),
		cache.SubListingKey(pointer.To("p2"), pagination.Forward(10, nil)),
		cache.SubListingKey(pointer.To("p1"), pagination.Backward(10, nil)),
		cache.CategoryKey("10"),
	}

	seen := make(map[string]int)
	for i, key := range variants {
		if prev, dup := seen[key]; dup {
			t.Fatalf("variants %d and %d collide on key %q", prev, i, key)
		}
		seen[key] = i
	}
}
