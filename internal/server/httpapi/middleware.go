package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext returns the token claims stored by requireAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// bearerToken extracts the JWT from the Authorization header or, failing
// that, from the access_token cookie. Both carry a "Bearer " prefix.
func bearerToken(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		cookie, err := r.Cookie("access_token")
		if err != nil {
			return "", false
		}
		raw = cookie.Value
	}
	token, ok := strings.CutPrefix(raw, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// requireAuth rejects requests without a valid token and stores the parsed
// claims in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			s.writeDomainError(w, r, common.ErrorUnauthorized)
			return
		}
		claims, err := auth.ParseToken(token, s.secretKey)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireCsrf enforces the double-submit check: the csrf_token cookie must
// match the X-Csrf-Token header.
func (s *Server) requireCsrf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("csrf_token")
		if err != nil {
			s.writeDomainError(w, r, common.ErrCsrfMismatch)
			return
		}
		header := r.Header.Get("X-Csrf-Token")
		if header == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
			s.writeDomainError(w, r, common.ErrCsrfMismatch)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
