// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/poiesic/passage/ingestion"
	"github.com/poiesic/passage/search"
)

// Server is the HTTP boundary over the ingestion pipeline and the retrieval
// engine. It owns the route table and the error mapping; all pipeline
// semantics live below it.
type Server struct {
	app       *fiber.App
	pipeline  *ingestion.Pipeline
	retriever *search.Retriever
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a server over the given pipeline and retriever.
func New(pipeline *ingestion.Pipeline, retriever *search.Retriever, opts ...Option) (*Server, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	s := &Server{
		pipeline:  pipeline,
		retriever: retriever,
		logger:    slog.Default().With("component", "server"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.handleHealth)

	apiv1 := s.app.Group("/api/v1")
	apiv1.Post("/ingest", s.handleIngest)
	apiv1.Post("/ingest/urls", s.handleIngestURLs)
	apiv1.Post("/query", s.handleQuery)
}

// Listen blocks serving HTTP on addr until Shutdown or a listener error.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.logger.Info("server stopping")
	return s.app.Shutdown()
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler maps failures to JSON bodies. Validation failures carry their
// own status; everything else is a 500 unless fiber assigned a status first.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(apiError{Error: fiberErr.Message})
	}

	s.logger.Error("request failed", "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(apiError{Error: err.Error()})
}

type apiError struct {
	Error string `json:"error"`
}
