package category

import (
	"context"
	"time"
)

// Scope selects which rows a page query sees.
type Scope int

const (
	// ScopeAll pages over every category.
	ScopeAll Scope = iota
	// ScopeTopLevel pages over categories without a parent.
	ScopeTopLevel
	// ScopeChildrenOf pages over the children of one parent.
	ScopeChildrenOf
)

// Boundary is a decoded cursor position in the (created_at, id) order.
type Boundary struct {
	CreatedAt time.Time
	ID        string
}

// PageQuery describes one keyset page fetch.
//
// Probe is the page size plus one: the extra row is how the caller learns
// whether more rows exist past the page without a second round trip.
type PageQuery struct {
	Forward  bool
	Probe    int32
	Boundary *Boundary // nil pages from the relevant end
	Scope    Scope
	ParentID *string // required when Scope is ScopeChildrenOf
}

// PageResult carries the probe rows (in query order) and the number of
// rows strictly on the other side of the boundary.
//
// CountOnOtherEnd is -1 when the query had no boundary; the caller
// synthesizes it from the row count.
type PageResult struct {
	Rows            []Category
	CountOnOtherEnd int64
}

// Repository is the persistence contract for categories.
type Repository interface {
	CategoryByID(context context.Context, id string) (*Category, error)
	Create(context context.Context, c *Category) error
	Update(context context.Context, c *Category) (*Category, error)
	Delete(context context.Context, id string) error
	Page(context context.Context, q PageQuery) (*PageResult, error)
}
