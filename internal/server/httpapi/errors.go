package httpapi

import (
	"errors"
	"net/http"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps domain errors onto HTTP status codes. Anything
// that does not match a known sentinel is treated as an internal error.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrUnknownStatus):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidSecurityAnswer),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrCsrfMismatch),
		errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrEmailAlreadyInUse), errors.Is(err, common.ErrPendingResetBlocked):
		return http.StatusForbidden
	case errors.Is(err, common.ErrUserNotFound), errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrStatusConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
