// Package httpapi exposes the lending application over HTTP/JSON.
// Timestamps are RFC 3339 everywhere; ids are UUID strings. Errors map
// onto status codes by taxonomy kind: validation and argument failures
// become 400, missing entities 404, lending conflicts and repeated
// returns 409, everything unclassified 500 with no cause leaked.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/librarylab/lending-go/app"
)

// Server holds the router and the composed application.
type Server struct {
	app    *app.App
	router chi.Router
}

type serverConfig struct {
	limiter *rate.Limiter
}

// ServerOption configures the Server.
type ServerOption func(*serverConfig)

// WithRateLimiter applies a shared token-bucket limiter to every route.
func WithRateLimiter(limiter *rate.Limiter) ServerOption {
	return func(c *serverConfig) {
		c.limiter = limiter
	}
}

// NewServer builds the HTTP surface for the given application.
func NewServer(application *app.App, options ...ServerOption) *Server {
	cfg := serverConfig{}
	for _, option := range options {
		option(&cfg)
	}

	s := &Server{app: application}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RateLimit(cfg.limiter))

	r.Route("/books", func(r chi.Router) {
		r.Post("/", s.handleCreateBook)
		r.Get("/", s.handleListBooks)
		r.Get("/{bookID}/also-borrowed", s.handleAlsoBorrowed)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleCreateUser)
		r.Get("/", s.handleListUsers)
		r.Get("/{userID}/reading-pace", s.handleReadingPace)
	})

	r.Route("/loans", func(r chi.Router) {
		r.Post("/", s.handleBorrowBook)
		r.Post("/{loanID}/return", s.handleReturnBook)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/most-borrowed", s.handleMostBorrowed)
		r.Get("/top-borrowers", s.handleTopBorrowers)
	})

	s.router = r

	return s
}

// ServeHTTP makes the server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
