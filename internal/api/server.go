// Package api serves the deck builder's REST interface.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/overpower-tools/deckbuilder/internal/catalog"
	"github.com/overpower-tools/deckbuilder/internal/deck"
	"github.com/overpower-tools/deckbuilder/internal/storage"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	rateLimitRPS   float64
	rateLimitBurst int

	store    *storage.Service
	catalog  *catalog.Store
	sessions *deck.SessionRegistry
}

// Config holds configuration for the API server.
type Config struct {
	Port           int
	RateLimitRPS   float64 // 0 disables rate limiting
	RateLimitBurst int
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		RateLimitRPS:   50,
		RateLimitBurst: 100,
	}
}

// NewServer creates a new API server over the given storage service and
// catalog store.
func NewServer(cfg *Config, store *storage.Service, cat *catalog.Store) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router:         chi.NewRouter(),
		port:           cfg.Port,
		rateLimitRPS:   cfg.RateLimitRPS,
		rateLimitBurst: cfg.RateLimitBurst,
		store:          store,
		catalog:        cat,
		sessions:       deck.NewSessionRegistry(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if s.rateLimitRPS > 0 {
		s.router.Use(rateLimitMiddleware(s.rateLimitRPS, s.rateLimitBurst))
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json for requests with
// bodies. Backup routes carry opaque payloads and are exempt.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if r.ContentLength == 0 || strings.HasPrefix(r.URL.Path, "/api/v1/backup") {
				next.ServeHTTP(w, r)
				return
			}
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler returns the server's root handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("API server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}
