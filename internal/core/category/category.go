package category

import (
	"time"

	"github.com/taibuivan/emporia/internal/platform/cache"
	"github.com/taibuivan/emporia/pkg/pagination"
)

// Category is the catalog entity of record.
//
// The id is a 21-character nanoid generated by the write path; it is never
// trusted from client input. (created_at, id) is unique and is the total
// sort order for pagination.
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SubCategories []string  `json:"sub_categories"`
	ImageURL      *string   `json:"image_url"`
	ParentID      *string   `json:"parent_id"` // may dangle; the store does not enforce it
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Edge pairs a node with its derived cursor.
type Edge struct {
	Cursor string   `json:"cursor"`
	Node   Category `json:"node"`
}

// PageInfo carries the Relay paging flags for a connection.
type PageInfo struct {
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// Connection is the Relay-style list response. Edges are always in
// ascending (created_at, id) order regardless of paging direction.
type Connection struct {
	Edges    []Edge   `json:"edges"`
	PageInfo PageInfo `json:"page_info"`
}

// ListingKind distinguishes the two connection cache families.
type ListingKind string

const (
	// ListingAll is the unfiltered categories listing.
	ListingAll ListingKind = "all"
	// ListingSubCategories is a listing filtered by parent (or top-level
	// when the parent id is absent).
	ListingSubCategories ListingKind = "subcategories"
)

// ConnectionCacheRequest is the payload of an UpdateBatch event: a
// connection page together with the inputs needed to re-derive its cache
// key on the worker side.
type ConnectionCacheRequest struct {
	Connection Connection        `json:"connection"`
	Pagination pagination.Params `json:"pagination"`
	Listing    ListingKind       `json:"listing"`
	ParentID   *string           `json:"parent_id,omitempty"`
}

// CacheKey derives the listing cache key for this request. The read path
// and the worker both go through here, keeping the two key derivations
// identical by construction.
func (r ConnectionCacheRequest) CacheKey() string {
	if r.Listing == ListingSubCategories {
		return cache.SubListingKey(r.ParentID, r.Pagination)
	}
	return cache.ListingKey(r.Pagination)
}

// CreateInput is the accepted shape for Create.
type CreateInput struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"sub_categories"`
	ImageURL      *string  `json:"image_url"`
	ParentID      *string  `json:"parent_id"`
}

// UpdateInput is the accepted shape for Update. Updates are unconditional
// on version; the last writer wins.
type UpdateInput struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SubCategories []string `json:"sub_categories"`
	ImageURL      *string  `json:"image_url"`
	ParentID      *string  `json:"parent_id"`
}

// Field names for validation details.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldImageURL = "image_url"
	FieldParentID = "parent_id"
)
