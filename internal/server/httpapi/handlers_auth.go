package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
)

type sessionResponse struct {
	User      any    `json:"user"`
	CsrfToken string `json:"csrfToken"`
}

// setSessionCookies writes the session cookies and returns the fresh CSRF
// token. The access_token cookie value keeps the "Bearer " prefix so it can
// be fed straight back through the Authorization path; the CSRF cookie stays
// readable by scripts for the double-submit header.
func setSessionCookies(w http.ResponseWriter, token string) string {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "Bearer " + token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	csrfToken := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "csrf_token",
		Value:    csrfToken,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
	return csrfToken
}

func clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "", Path: "/", MaxAge: -1})
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, common.ErrValidation)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	session, err := s.auth.SignUp(r.Context(), req.Email, req.Password, req.Name, req.Verification)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	csrfToken := setSessionCookies(w, session.Token)
	writeJSON(w, http.StatusCreated, sessionResponse{User: session.Account.Public(), CsrfToken: csrfToken})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, common.ErrValidation)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	csrfToken := setSessionCookies(w, session.Token)
	writeJSON(w, http.StatusOK, sessionResponse{User: session.Account.Public(), CsrfToken: csrfToken})
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.writeDomainError(w, r, common.ErrorUnauthorized)
		return
	}
	account, err := s.auth.GetMe(r.Context(), claims.Email)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": account.Email, "name": account.Name})
}

// handleCsrfToken rotates the CSRF cookie for an authenticated session.
func (s *Server) handleCsrfToken(w http.ResponseWriter, r *http.Request) {
	csrfToken := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "csrf_token",
		Value:    csrfToken,
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"csrfToken": csrfToken})
}

func (s *Server) handleVerifyUser(w http.ResponseWriter, r *http.Request) {
	var req verifyUserRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, common.ErrValidation)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	question, err := s.auth.ValidateUser(r.Context(), req.Email)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"question": question})
}

func (s *Server) handleVerifyQuestion(w http.ResponseWriter, r *http.Request) {
	var req verifyQuestionRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, common.ErrValidation)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	account, err := s.auth.ValidateQuestion(r.Context(), req.Email, req.Answer)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, common.ErrValidation)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	account, err := s.auth.ResetPassword(r.Context(), req.Email, req.NewPassword)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
