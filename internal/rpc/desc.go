// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Hand-written service descriptors. The names mirror the published
// contract (package "categories", services QueryCategories and
// MutateCategories) so clients built against that contract resolve the
// same method paths.

var queryServiceDesc = grpc.ServiceDesc{
	ServiceName: "categories.QueryCategories",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Categories", Handler: categoriesHandler},
		{MethodName: "SubCategories", Handler: subCategoriesHandler},
		{MethodName: "CategoryById", Handler: categoryByIDHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "categories.json",
}

var mutateServiceDesc = grpc.ServiceDesc{
	ServiceName: "categories.MutateCategories",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: createHandler},
		{MethodName: "Update", Handler: updateHandler},
		{MethodName: "Delete", Handler: deleteHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "categories.json",
}

func categoriesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &CategoriesRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).categories(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/categories.QueryCategories/Categories",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).categories(ctx, req.(*CategoriesRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func subCategoriesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &SubCategoriesRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).subCategories(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/categories.QueryCategories/SubCategories",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).subCategories(ctx, req.(*SubCategoriesRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func categoryByIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &CategoryByIDRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).categoryByID(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/categories.QueryCategories/CategoryById",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).categoryByID(ctx, req.(*CategoryByIDRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func createHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &CreateCategoryRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).create(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/categories.MutateCategories/Create",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).create(ctx, req.(*CreateCategoryRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func updateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &UpdateCategoryRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).update(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/categories.MutateCategories/Update",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).update(ctx, req.(*UpdateCategoryRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func deleteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &DeleteCategoryRequest{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(*Server).delete(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/categories.MutateCategories/Delete",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(*Server).delete(ctx, req.(*DeleteCategoryRequest))
	}
	return interceptor(ctx, req, info, handler)
}
