// Package api serves the itinerary over HTTP/JSON for a UI layer.
//
// Routes (all JSON unless noted):
//
//	GET    /health
//	GET    /v1/entries
//	POST   /v1/entries
//	GET    /v1/entries/:id
//	PATCH  /v1/entries/:id/schedule
//	DELETE /v1/entries/:id
//	GET    /v1/catalog/regions
//	GET    /v1/catalog/regions/:region
//	GET    /v1/export/ics            (text/calendar)
//
// Middleware order: request logging → security headers → CORS → router;
// per route: rate limit → identity → handler.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/sarawak-explorer/itinerary/internal/export"
	"github.com/sarawak-explorer/itinerary/internal/identity"
	"github.com/sarawak-explorer/itinerary/internal/log"
	"github.com/sarawak-explorer/itinerary/internal/service"
)

// Options configures a Server.
type Options struct {
	Listen         string
	AllowedOrigins []string

	// RatePerSecond and Burst bound requests per client address.
	RatePerSecond float64
	Burst         int

	// Identity decides who a request acts as. A provider that can verify
	// bearer tokens (identity.JWT) requires one on every protected route.
	// Nil serves the local profile to every request.
	// request.
	Identity identity.Provider

	Export export.Options
}

// Server is the HTTP front end of a service.Service.
type Server struct {
	svc     *service.Service
	opts    Options
	limiter *RateLimiter
	handler http.Handler
}

// New builds the router and middleware chain.
func New(svc *service.Service, opts Options) *Server {
	if opts.Identity == nil {
		opts.Identity = identity.NewLocal("")
	}
	s := &Server{
		svc:     svc,
		opts:    opts,
		limiter: NewRateLimiter(opts.RatePerSecond, opts.Burst),
	}

	router := s.routes()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)
	s.handler = loggingMiddleware(securityHeaders(corsHandler))

	return s
}

func (s *Server) routes() *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", s.health)

	router.GET("/v1/entries", s.limit(s.authenticate(s.listEntries)))
	router.POST("/v1/entries", s.limit(s.authenticate(s.createEntry)))
	router.GET("/v1/entries/:id", s.limit(s.authenticate(s.getEntry)))
	router.PATCH("/v1/entries/:id/schedule", s.limit(s.authenticate(s.updateSchedule)))
	router.DELETE("/v1/entries/:id", s.limit(s.authenticate(s.deleteEntry)))

	router.GET("/v1/catalog/regions", s.limit(s.listRegions))
	router.GET("/v1/catalog/regions/:region", s.limit(s.getRegion))

	router.GET("/v1/export/ics", s.limit(s.authenticate(s.exportICS)))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "route not found")
	})
	return router
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.opts.Listen,
		Handler:           s.handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", s.opts.Listen, "auth", s.authMode())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", s.opts.Listen, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("api stopped")
	return nil
}

func (s *Server) authMode() string {
	if _, ok := s.opts.Identity.(tokenVerifier); ok {
		return "jwt"
	}
	return "local"
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
