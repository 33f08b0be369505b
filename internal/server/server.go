// Package server provides the HTTP API for Nutrio.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/assistant"
	"github.com/fitlife/nutrio/internal/config"
	"github.com/fitlife/nutrio/internal/mealplan"
	"github.com/fitlife/nutrio/internal/rag"
	"github.com/fitlife/nutrio/internal/recommend"
	"github.com/fitlife/nutrio/internal/storage"
)

// Components are the dataset-derived services. They are swapped as a unit
// when the food table reloads.
type Components struct {
	Engine    *recommend.Engine
	Planner   *mealplan.Planner
	Pipeline  *rag.Pipeline
	Assistant *assistant.Assistant
}

// Server is the HTTP server for the Nutrio API.
type Server struct {
	mu         sync.RWMutex
	components *Components

	storage storage.Storage
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. Storage may be nil;
// profile endpoints then return 501.
func NewServer(
	components *Components,
	store storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		components: components,
		storage:    store,
		config:     cfg,
		logger:     logger,
	}
}

// Swap replaces the dataset-derived components after a reload.
func (s *Server) Swap(c *Components) {
	s.mu.Lock()
	s.components = c
	s.mu.Unlock()
}

func (s *Server) current() *Components {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.components
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/needs", s.handleNeeds)
	r.Post("/api/v1/bmi", s.handleBMI)
	r.Post("/api/v1/recommend", s.handleRecommend)
	r.Get("/api/v1/alternatives", s.handleAlternatives)
	r.Post("/api/v1/plan", s.handlePlan)
	r.Post("/api/v1/query", s.handleQuery)
	r.Post("/api/v1/ask", s.handleAsk)

	r.Post("/api/v1/profiles", s.handleCreateProfile)
	r.Get("/api/v1/profiles", s.handleListProfiles)
	r.Get("/api/v1/profiles/{id}", s.handleGetProfile)
	r.Put("/api/v1/profiles/{id}", s.handleUpdateProfile)
	r.Delete("/api/v1/profiles/{id}", s.handleDeleteProfile)
	r.Post("/api/v1/profiles/{id}/progress", s.handleAddProgress)
	r.Get("/api/v1/profiles/{id}/progress", s.handleListProgress)

	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
