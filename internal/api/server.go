// Copyright (c) 2026 Emporia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, GraphQL
endpoint and gRPC service into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - GraphQL and gRPC share one listener: h2c requests with a gRPC
    content-type are routed to the gRPC server, everything else to chi.
  - Only this package and cmd/ are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	gql "github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"

	"github.com/taibuivan/emporia/internal/platform/config"
	"github.com/taibuivan/emporia/internal/platform/constants"
	"github.com/taibuivan/emporia/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router, the gRPC server and the [http.Server].
//
// It is constructed once in main with all dependencies injected.
type Server struct {
	httpServer *http.Server
	grpcServer *grpc.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets mounted on the router.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// GraphQL serves the query endpoint at / (and the playground in
	// development).
	GraphQL http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// the shared h2c listener dispatching between HTTP and gRPC.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, grpcServer *grpc.Server, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Handle("/", h.GraphQL)

	// gRPC and HTTP share the port: cleartext HTTP/2 frames carrying a
	// gRPC content-type go to the gRPC server, the rest to chi.
	mux := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.ProtoMajor == 2 && strings.HasPrefix(request.Header.Get("Content-Type"), "application/grpc") {
			grpcServer.ServeHTTP(writer, request)
			return
		}
		r.ServeHTTP(writer, request)
	})

	return &Server{
		router:     r,
		grpcServer: grpcServer,
		log:        log,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           h2c.NewHandler(mux, &http2.Server{}),
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewGraphQLHandler builds the GraphQL endpoint. Development mode serves
// the playground on GET; production answers GET with a plain banner so
// the schema stays unadvertised.
func NewGraphQLHandler(schema gql.Schema, cfg *config.Config) http.Handler {
	endpoint := gqlhandler.New(&gqlhandler.Config{
		Schema:     &schema,
		Pretty:     cfg.IsDevelopment(),
		Playground: cfg.IsDevelopment(),
	})

	if cfg.IsDevelopment() {
		return endpoint
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method == http.MethodGet {
			writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprintln(writer, constants.AppName)
			return
		}
		endpoint.ServeHTTP(writer, request)
	})
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
// The gRPC side drains first so in-flight unary calls settle.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.grpcServer.GracefulStop()

	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
