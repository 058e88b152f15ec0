// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package graphql exposes the categories service as a GraphQL schema.

The schema depends on a single capability interface rather than the
concrete service so resolver tests run against fakes. Connections follow
the Relay shape (edges/cursor/pageInfo) with the same paging rules as the
RPC surface.
*/
package graphql

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/taibuivan/emporia/internal/core/category"
	"github.com/taibuivan/emporia/pkg/pagination"
)

// CategoryService is every capability the schema resolves against.
type CategoryService interface {
	Categories(ctx context.Context, params pagination.Params) (*category.Connection, error)
	SubCategoriesOf(ctx context.Context, parentID string, params pagination.Params) (*category.Connection, error)
	TopLevelCategories(ctx context.Context, params pagination.Params) (*category.Connection, error)
	CategoryByID(ctx context.Context, id string) (*category.Category, error)
	Create(ctx context.Context, input category.CreateInput) (*category.Category, error)
	Update(ctx context.Context, input category.UpdateInput) (*category.Category, error)
	Delete(ctx context.Context, id string) error
}

// New assembles the executable schema over the given service.
func New(service CategoryService) (graphql.Schema, error) {
	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"subCategories": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
			"imageUrl":      &graphql.Field{Type: graphql.String},
			"parentId":      &graphql.Field{Type: graphql.String},
			"createdAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CategoryEdge",
		Fields: graphql.Fields{
			"cursor": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"node":   &graphql.Field{Type: graphql.NewNonNull(categoryType)},
		},
	})

	connectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CategoryConnection",
		Fields: graphql.Fields{
			"edges":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edgeType)))},
			"pageInfo": &graphql.Field{Type: graphql.NewNonNull(pageInfoType)},
		},
	})

	paginationArgs := graphql.FieldConfigArgument{
		"first":  &graphql.ArgumentConfig{Type: graphql.Int},
		"last":   &graphql.ArgumentConfig{Type: graphql.Int},
		"after":  &graphql.ArgumentConfig{Type: graphql.String},
		"before": &graphql.ArgumentConfig{Type: graphql.String},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewNonNull(connectionType),
				Args: paginationArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return service.Categories(p.Context, paramsFromArgs(p.Args))
				},
			},
			"subCategories": &graphql.Field{
				Type: graphql.NewNonNull(connectionType),
				Args: mergeArgs(paginationArgs, graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.ID},
				}),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					params := paramsFromArgs(p.Args)
					if raw, ok := p.Args["id"].(string); ok && raw != "" {
						return service.SubCategoriesOf(p.Context, raw, params)
					}
					return service.TopLevelCategories(p.Context, params)
				},
			},
			"categoryById": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					raw, ok := p.Args["id"].(string)
					if !ok {
						return nil, fmt.Errorf("id is required")
					}
					return service.CategoryByID(p.Context, raw)
				},
			},
		},
	})

	categoryInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"subCategories": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"imageUrl":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"parentId":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"create": &graphql.Field{
				Type: graphql.NewNonNull(categoryType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(categoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					fields, ok := p.Args["input"].(map[string]any)
					if !ok {
						return nil, fmt.Errorf("input is required")
					}
					return service.Create(p.Context, category.CreateInput{
						Name:          stringArg(fields, "name"),
						SubCategories: stringListArg(fields, "subCategories"),
						ImageURL:      optionalStringArg(fields, "imageUrl"),
						ParentID:      optionalStringArg(fields, "parentId"),
					})
				},
			},
			"update": &graphql.Field{
				Type: graphql.NewNonNull(categoryType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(categoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					fields, ok := p.Args["input"].(map[string]any)
					if !ok {
						return nil, fmt.Errorf("input is required")
					}
					return service.Update(p.Context, category.UpdateInput{
						ID:            stringArg(p.Args, "id"),
						Name:          stringArg(fields, "name"),
						SubCategories: stringListArg(fields, "subCategories"),
						ImageURL:      optionalStringArg(fields, "imageUrl"),
						ParentID:      optionalStringArg(fields, "parentId"),
					})
				},
			},
			"delete": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if err := service.Delete(p.Context, stringArg(p.Args, "id")); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// # Argument Decoding

func paramsFromArgs(args map[string]any) pagination.Params {
	params := pagination.Params{}
	if v, ok := args["first"].(int); ok {
		n := int32(v)
		params.First = &n
	}
	if v, ok := args["last"].(int); ok {
		n := int32(v)
		params.Last = &n
	}
	if v, ok := args["after"].(string); ok {
		params.After = &v
	}
	if v, ok := args["before"].(string); ok {
		params.Before = &v
	}
	return params
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func optionalStringArg(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func stringListArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mergeArgs(base, extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	merged := graphql.FieldConfigArgument{}
	for name, cfg := range base {
		merged[name] = cfg
	}
	for name, cfg := range extra {
		merged[name] = cfg
	}
	return merged
}
