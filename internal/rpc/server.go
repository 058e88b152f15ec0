// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/taibuivan/emporia/internal/core/category"
	"github.com/taibuivan/emporia/internal/platform/apperr"
	"github.com/taibuivan/emporia/internal/platform/dberr"
)

// Server adapts the category service to the two gRPC service surfaces.
type Server struct {
	service *category.Service
}

// Register attaches the query and mutation services to the gRPC server
// and enables server reflection.
func Register(grpcServer *grpc.Server, service *category.Service) {
	server := &Server{service: service}
	grpcServer.RegisterService(&queryServiceDesc, server)
	grpcServer.RegisterService(&mutateServiceDesc, server)
	reflection.Register(grpcServer)
}

// # Query Surface

func (s *Server) categories(ctx context.Context, req *CategoriesRequest) (*category.Connection, error) {
	conn, err := s.service.Categories(ctx, req.Pagination)
	if err != nil {
		return nil, statusFromError(err)
	}
	return conn, nil
}

func (s *Server) subCategories(ctx context.Context, req *SubCategoriesRequest) (*category.Connection, error) {
	var (
		conn *category.Connection
		err  error
	)
	if req.ID != nil {
		conn, err = s.service.SubCategoriesOf(ctx, *req.ID, req.Pagination)
	} else {
		conn, err = s.service.TopLevelCategories(ctx, req.Pagination)
	}
	if err != nil {
		return nil, statusFromError(err)
	}
	return conn, nil
}

func (s *Server) categoryByID(ctx context.Context, req *CategoryByIDRequest) (*category.Category, error) {
	c, err := s.service.CategoryByID(ctx, req.ID)
	if err != nil {
		return nil, statusFromError(err)
	}
	return c, nil
}

// # Mutation Surface

func (s *Server) create(ctx context.Context, req *CreateCategoryRequest) (*category.Category, error) {
	c, err := s.service.Create(ctx, category.CreateInput{
		Name:          req.Name,
		SubCategories: req.SubCategories,
		ImageURL:      req.ImageURL,
		ParentID:      req.ParentID,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return c, nil
}

func (s *Server) update(ctx context.Context, req *UpdateCategoryRequest) (*category.Category, error) {
	c, err := s.service.Update(ctx, category.UpdateInput{
		ID:            req.ID,
		Name:          req.Name,
		SubCategories: req.SubCategories,
		ImageURL:      req.ImageURL,
		ParentID:      req.ParentID,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return c, nil
}

func (s *Server) delete(ctx context.Context, req *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	if err := s.service.Delete(ctx, req.ID); err != nil {
		return nil, statusFromError(err)
	}
	return &DeleteCategoryResponse{}, nil
}

// statusFromError translates domain errors to gRPC status codes. Internal
// causes stay server-side; only the apperr message crosses the wire.
func statusFromError(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return status.Error(codes.NotFound, dberr.ErrNotFound.Message)
	}

	if appErr := apperr.As(err); appErr != nil {
		switch appErr.Code {
		case "VALIDATION_ERROR", "UNPROCESSABLE":
			return status.Error(codes.InvalidArgument, appErr.Message)
		case "NOT_FOUND":
			return status.Error(codes.NotFound, appErr.Message)
		case "SERVICE_UNAVAILABLE":
			return status.Error(codes.Unavailable, appErr.Message)
		}
	}

	return status.Error(codes.Internal, "internal error")
}
