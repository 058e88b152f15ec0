// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache defines the deterministic key scheme and the typed client
for the read-through cache.

# Key Scheme

Keys are plain text, colon-delimited, case-sensitive:

	categories:id=<id>
	categories:all:cursor=<cursor-or-[NONE]>:index=<first|last>:<n>
	categories:subcategories:parent=<id-or-[NONE]>:cursor=<cursor-or-[NONE]>:index=<first|last>:<n>

Every input that affects a query result is part of its key — cursor,
direction, page size, and (for sublistings) the parent id — so two
distinct queries can never collide on one entry. The read path and the
cache-update worker derive keys through this package only; any drift
between the two would silently split the cache.
*/
package cache

import (
	"strconv"

	"github.com/taibuivan/emporia/pkg/pagination"
)

// nonePlaceholder stands in for an absent cursor or parent id.
const nonePlaceholder = "[NONE]"

// entityCategories prefixes every key of the categories entity.
const entityCategories = "categories"

// CategoryKey returns the cache key for a single category.
func CategoryKey(id string) string {
	return entityCategories + ":id=" + id
}

// ListingKey returns the cache key for an all-categories connection page.
//
// The page size baked into the key is the params' own count, so callers
// must clamp to the configured query limit before deriving the key.
func ListingKey(params pagination.Params) string {
	return entityCategories + ":all:" + cursorSegment(params)
}

// SubListingKey returns the cache key for a sublisting connection page.
// A nil parentID addresses the top-level listing (categories without a
// parent).
func SubListingKey(parentID *string, params pagination.Params) string {
	parent := nonePlaceholder
	if parentID != nil {
		parent = *parentID
	}
	return entityCategories + ":subcategories:parent=" + parent + ":" + cursorSegment(params)
}

// cursorSegment renders "cursor=<c>:index=<first|last>:<n>".
func cursorSegment(params pagination.Params) string {
	cursorValue := nonePlaceholder
	if c := params.Cursor(); c != nil {
		cursorValue = *c
	}

	direction := "last"
	var count int32
	if params.First != nil {
		direction = "first"
		count = *params.First
	} else if params.Last != nil {
		count = *params.Last
	}

	return "cursor=" + cursorValue + ":index=" + direction + ":" + strconv.FormatInt(int64(count), 10)
}
