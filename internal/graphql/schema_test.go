// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package graphql_test

import (
	"context"
	"testing"
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/emporia/internal/core/category"
	"github.com/taibuivan/emporia/internal/graphql"
	"github.com/taibuivan/emporia/internal/platform/apperr"
	"github.com/taibuivan/emporia/pkg/pagination"
)

// fakeService records the call that reached it and returns canned data.
type fakeService struct {
	lastParams   pagination.Params
	lastParentID string
	lastOp       string
	lastInput    any
	connection   *category.Connection
	category     *category.Category
	err          error
}

func (f *fakeService) Categories(_ context.Context, params pagination.Params) (*category.Connection, error) {
	f.lastOp, f.lastParams = "categories", params
	return f.connection, f.err
}

func (f *fakeService) SubCategoriesOf(_ context.Context, parentID string, params pagination.Params) (*category.Connection, error) {
	f.lastOp, f.lastParentID, f.lastParams = "subCategoriesOf", parentID, params
	return f.connection, f.err
}

func (f *fakeService) TopLevelCategories(_ context.Context, params pagination.Params) (*category.Connection, error) {
	f.lastOp, f.lastParams = "topLevel", params
	return f.connection, f.err
}

func (f *fakeService) CategoryByID(_ context.Context, id string) (*category.Category, error) {
	f.lastOp, f.lastParentID = "categoryById", id
	return f.category, f.err
}

func (f *fakeService) Create(_ context.Context, input category.CreateInput) (*category.Category, error) {
	f.lastOp, f.lastInput = "create", input
	return f.category, f.err
}

func (f *fakeService) Update(_ context.Context, input category.UpdateInput) (*category.Category, error) {
	f.lastOp, f.lastInput = "update", input
	return f.category, f.err
}

func (f *fakeService) Delete(_ context.Context, id string) error {
	f.lastOp, f.lastParentID = "delete", id
	return f.err
}

func execute(t *testing.T, service *fakeService, query string) *gql.Result {
	t.Helper()

	schema, err := graphql.New(service)
	require.NoError(t, err)

	return gql.Do(gql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

/*
TestQuery_Categories checks arg translation into pagination params and
the connection shape in the response.
*/
func TestQuery_Categories(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := &fakeService{
		connection: &category.Connection{
			Edges: []category.Edge{{
				Cursor: "c1",
				Node:   category.Category{ID: "abc", Name: "Books", SubCategories: []string{}, CreatedAt: createdAt, UpdatedAt: createdAt},
			}},
			PageInfo: category.PageInfo{HasNextPage: true},
		},
	}

	result := execute(t, service, `{
		categories(first: 5, after: "cur") {
			edges { cursor node { id name } }
			pageInfo { hasNextPage hasPreviousPage }
		}
	}`)

	require.Empty(t, result.Errors)
	assert.Equal(t, "categories", service.lastOp)
	require.NotNil(t, service.lastParams.First)
	assert.Equal(t, int32(5), *service.lastParams.First)
	require.NotNil(t, service.lastParams.After)
	assert.Equal(t, "cur", *service.lastParams.After)

	data := result.Data.(map[string]any)
	conn := data["categories"].(map[string]any)
	edges := conn["edges"].([]any)
	require.Len(t, edges, 1)
	node := edges[0].(map[string]any)["node"].(map[string]any)
	assert.Equal(t, "abc", node["id"])

	info := conn["pageInfo"].(map[string]any)
	assert.Equal(t, true, info["hasNextPage"])
	assert.Equal(t, false, info["hasPreviousPage"])
}

/*
TestQuery_SubCategories checks the id argument steers between the two
disjoint operations.
*/
func TestQuery_SubCategories(t *testing.T) {
	t.Run("with_parent", func(t *testing.T) {
		service := &fakeService{connection: &category.Connection{Edges: []category.Edge{}}}

		result := execute(t, service, `{ subCategories(id: "parent1", first: 3) { pageInfo { hasNextPage } } }`)
		require.Empty(t, result.Errors)
		assert.Equal(t, "subCategoriesOf", service.lastOp)
		assert.Equal(t, "parent1", service.lastParentID)
	})

	t.Run("without_parent", func(t *testing.T) {
		service := &fakeService{connection: &category.Connection{Edges: []category.Edge{}}}

		result := execute(t, service, `{ subCategories(first: 3) { pageInfo { hasNextPage } } }`)
		require.Empty(t, result.Errors)
		assert.Equal(t, "topLevel", service.lastOp)
	})
}

/*
TestMutation_Create checks input-object decoding into CreateInput.
*/
func TestMutation_Create(t *testing.T) {
	service := &fakeService{category: &category.Category{ID: "new", Name: "Games", SubCategories: []string{}}}

	result := execute(t, service, `mutation {
		create(input: {name: "Games", parentId: "p1"}) { id name }
	}`)

	require.Empty(t, result.Errors)
	assert.Equal(t, "create", service.lastOp)

	input := service.lastInput.(category.CreateInput)
	assert.Equal(t, "Games", input.Name)
	require.NotNil(t, input.ParentID)
	assert.Equal(t, "p1", *input.ParentID)
	assert.Nil(t, input.ImageURL)
}

/*
TestMutation_Delete maps service success to a boolean and surfaces
service errors as GraphQL errors.
*/
func TestMutation_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &fakeService{}

		result := execute(t, service, `mutation { delete(id: "abc") }`)
		require.Empty(t, result.Errors)
		assert.Equal(t, "delete", service.lastOp)
		assert.Equal(t, "abc", service.lastParentID)
	})

	t.Run("not_found", func(t *testing.T) {
		service := &fakeService{err: apperr.NotFound("Category")}

		result := execute(t, service, `mutation { delete(id: "abc") }`)
		require.NotEmpty(t, result.Errors)
	})
}
