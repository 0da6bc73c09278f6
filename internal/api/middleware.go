package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/sarawak-explorer/itinerary/internal/identity"
	"github.com/sarawak-explorer/itinerary/internal/log"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	user   string
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs method, path, status, client and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"user", rec.user,
			"duration", time.Since(start).String(),
		)
	})
}

// securityHeaders applies the usual hardening headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// tokenVerifier is implemented by providers that read a bearer token from
// the Authorization header.
type tokenVerifier interface {
	Verify(header string) (identity.Profile, error)
}

// authenticate admits requests the identity provider reports as
// authenticated and records the caller for the request log.
func (s *Server) authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := r.Context()

		if verifier, ok := s.opts.Identity.(tokenVerifier); ok {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondWithError(w, http.StatusUnauthorized, "Missing token")
				return
			}
			profile, err := verifier.Verify(header)
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			ctx = identity.WithProfile(ctx, profile)
		}

		if !s.opts.Identity.Authenticated(ctx) {
			respondWithError(w, http.StatusUnauthorized, "Not signed in")
			return
		}
		if profile, ok := s.opts.Identity.Profile(ctx); ok {
			if rec, ok := w.(*statusRecorder); ok {
				rec.user = profile.UserID
			}
			ctx = identity.WithProfile(ctx, profile)
		}

		next(w, r.WithContext(ctx), ps)
	}
}

// limit rejects requests over the per-client rate.
func (s *Server) limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !s.limiter.Allow(clientAddr(r)) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next(w, r, ps)
	}
}
