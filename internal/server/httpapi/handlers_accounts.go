package httpapi

import (
	"net/http"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/services"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out := make([]*models.PublicAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Public())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

func (s *Server) handleGetAccountByEmail(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.GetByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountCreateRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, common.ErrValidation)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	in := services.AccountInput{
		Email:        req.Email,
		Name:         req.Name,
		Password:     req.Password,
		Verification: req.Verification,
	}
	if req.Status != "" {
		status, err := models.ParseStatus(req.Status)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		in.Status = status
	}

	account, err := s.accounts.Create(r.Context(), in)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account.Public())
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	upd, ok := s.parseAccountUpdate(w, r)
	if !ok {
		return
	}
	account, err := s.accounts.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

func (s *Server) handleUpdateAccountByEmail(w http.ResponseWriter, r *http.Request) {
	upd, ok := s.parseAccountUpdate(w, r)
	if !ok {
		return
	}
	account, err := s.accounts.UpdateByEmail(r.Context(), r.PathValue("email"), upd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account.Public())
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) parseAccountUpdate(w http.ResponseWriter, r *http.Request) (services.AccountUpdate, bool) {
	var req accountUpdateRequest
	if err := parseJSON(r, &req); err != nil {
		s.writeDomainError(w, r, common.ErrValidation)
		return services.AccountUpdate{}, false
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return services.AccountUpdate{}, false
	}

	upd := services.AccountUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}
	if req.Verification != nil {
		upd.Question = &req.Verification.Question
		upd.Answer = &req.Verification.Answer
	}
	if req.Status != nil {
		status, err := models.ParseStatus(*req.Status)
		if err != nil {
			s.writeDomainError(w, r, err)
			return services.AccountUpdate{}, false
		}
		upd.Status = &status
	}
	return upd, true
}
