// Package httpapi exposes the authentication and account services over
// HTTP. It owns request parsing, validation, the cookie and CSRF session
// contract, and the mapping of domain errors onto status codes.
package httpapi

import (
	"net/http"

	"github.com/tarek99samy/AuthBridge-backend/internal/logging"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/services"
)

// Middleware wraps an http.Handler. Used to plug in optional cross-cutting
// behaviour such as request throttling.
type Middleware func(http.Handler) http.Handler

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	auth      *services.AuthService
	accounts  *services.AccountService
	secretKey []byte
	logger    logging.Logger
	throttle  Middleware
}

// New constructs a Server. throttle may be nil.
func New(authSvc *services.AuthService, accountSvc *services.AccountService, secretKey []byte, logger logging.Logger, throttle Middleware) *Server {
	return &Server{
		auth:      authSvc,
		accounts:  accountSvc,
		secretKey: secretKey,
		logger:    logger,
		throttle:  throttle,
	}
}

// Handler builds the route table. Mutating account routes sit behind both
// the auth and CSRF checks; the recovery flow is unauthenticated on purpose
// since its callers have lost their password.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/verify-user", s.handleVerifyUser)
	mux.HandleFunc("POST /auth/verify-question", s.handleVerifyQuestion)
	mux.HandleFunc("POST /auth/reset-password", s.handleResetPassword)

	mux.Handle("GET /auth/me", s.requireAuth(http.HandlerFunc(s.handleGetMe)))
	mux.Handle("GET /auth/csrf-token", s.requireAuth(http.HandlerFunc(s.handleCsrfToken)))
	mux.Handle("POST /auth/logout", s.requireAuth(http.HandlerFunc(s.handleLogout)))

	mux.Handle("GET /users", s.requireAuth(http.HandlerFunc(s.handleListAccounts)))
	mux.Handle("GET /users/{id}", s.requireAuth(http.HandlerFunc(s.handleGetAccount)))
	mux.Handle("GET /users/email/{email}", s.requireAuth(http.HandlerFunc(s.handleGetAccountByEmail)))
	mux.Handle("POST /users", s.requireAuth(s.requireCsrf(http.HandlerFunc(s.handleCreateAccount))))
	mux.Handle("POST /users/{id}", s.requireAuth(s.requireCsrf(http.HandlerFunc(s.handleUpdateAccount))))
	mux.Handle("POST /users/email/{email}", s.requireAuth(s.requireCsrf(http.HandlerFunc(s.handleUpdateAccountByEmail))))
	mux.Handle("DELETE /users/{id}", s.requireAuth(s.requireCsrf(http.HandlerFunc(s.handleDeleteAccount))))

	var h http.Handler = mux
	if s.throttle != nil {
		h = s.throttle(h)
	}
	return s.withLogging(h)
}
