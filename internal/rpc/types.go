// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rpc

import (
	"github.com/taibuivan/emporia/pkg/pagination"
)

// CategoriesRequest pages over the whole catalog.
type CategoriesRequest struct {
	Pagination pagination.Params `json:"pagination"`
}

// SubCategoriesRequest pages over one parent's children, or over the
// top-level categories when ID is absent. The two row sets are disjoint.
type SubCategoriesRequest struct {
	ID         *string           `json:"id,omitempty"`
	Pagination pagination.Params `json:"pagination"`
}

// CategoryByIDRequest fetches a single category.
type CategoryByIDRequest struct {
	ID string `json:"id"`
}

// CreateCategoryRequest submits a new category. The id is generated
// server-side; any client-provided id is ignored.
type CreateCategoryRequest struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"sub_categories"`
	ImageURL      *string  `json:"image_url"`
	ParentID      *string  `json:"parent_id"`
}

// UpdateCategoryRequest replaces a category wholesale (last writer wins).
type UpdateCategoryRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SubCategories []string `json:"sub_categories"`
	ImageURL      *string  `json:"image_url"`
	ParentID      *string  `json:"parent_id"`
}

// DeleteCategoryRequest removes a category by id.
type DeleteCategoryRequest struct {
	ID string `json:"id"`
}

// DeleteCategoryResponse is the empty acknowledgement of a delete.
type DeleteCategoryResponse struct{}
