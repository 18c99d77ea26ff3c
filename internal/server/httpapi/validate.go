package httpapi

import (
	"net/http"
	"regexp"

	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
)

var (
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	passwordRe = regexp.MustCompile(`^[A-Za-z\d!@#$%^&*]+$`)
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields"`
}

func writeValidationErrors(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: errs})
}

func checkName(errs []fieldError, name string) []fieldError {
	if len(name) < 3 || len(name) > 50 {
		errs = append(errs, fieldError{Field: "name", Message: "must be between 3 and 50 characters"})
	}
	return errs
}

func checkEmail(errs []fieldError, email string) []fieldError {
	if len(email) < 5 || len(email) > 100 || !emailRe.MatchString(email) {
		errs = append(errs, fieldError{Field: "email", Message: "must be a valid email address"})
	}
	return errs
}

func checkPassword(errs []fieldError, field, password string) []fieldError {
	if len(password) < 8 {
		return append(errs, fieldError{Field: field, Message: "must be at least 8 characters"})
	}
	hasLetter, hasDigit := false, false
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit || !passwordRe.MatchString(password) {
		errs = append(errs, fieldError{Field: field, Message: "must contain letters and digits, with only !@#$%^&* as special characters"})
	}
	return errs
}

func checkRequired(errs []fieldError, field, value string) []fieldError {
	if value == "" {
		errs = append(errs, fieldError{Field: field, Message: "must not be empty"})
	}
	return errs
}

type signUpRequest struct {
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Password     string              `json:"password"`
	Verification models.Verification `json:"verification"`
}

func (r *signUpRequest) validate() []fieldError {
	var errs []fieldError
	errs = checkName(errs, r.Name)
	errs = checkEmail(errs, r.Email)
	errs = checkPassword(errs, "password", r.Password)
	errs = checkRequired(errs, "verification.question", r.Verification.Question)
	errs = checkRequired(errs, "verification.answer", r.Verification.Answer)
	return errs
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() []fieldError {
	var errs []fieldError
	errs = checkEmail(errs, r.Email)
	errs = checkRequired(errs, "password", r.Password)
	return errs
}

type verifyUserRequest struct {
	Email string `json:"email"`
}

func (r *verifyUserRequest) validate() []fieldError {
	return checkEmail(nil, r.Email)
}

type verifyQuestionRequest struct {
	Email  string `json:"email"`
	Answer string `json:"answer"`
}

func (r *verifyQuestionRequest) validate() []fieldError {
	var errs []fieldError
	errs = checkEmail(errs, r.Email)
	errs = checkRequired(errs, "answer", r.Answer)
	return errs
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (r *resetPasswordRequest) validate() []fieldError {
	var errs []fieldError
	errs = checkEmail(errs, r.Email)
	errs = checkPassword(errs, "newPassword", r.NewPassword)
	return errs
}

type accountCreateRequest struct {
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Password     string              `json:"password"`
	Verification models.Verification `json:"verification"`
	Status       string              `json:"status,omitempty"`
}

func (r *accountCreateRequest) validate() []fieldError {
	var errs []fieldError
	errs = checkName(errs, r.Name)
	errs = checkEmail(errs, r.Email)
	errs = checkPassword(errs, "password", r.Password)
	errs = checkRequired(errs, "verification.question", r.Verification.Question)
	errs = checkRequired(errs, "verification.answer", r.Verification.Answer)
	if r.Status != "" {
		if _, err := models.ParseStatus(r.Status); err != nil {
			errs = append(errs, fieldError{Field: "status", Message: "unknown status"})
		}
	}
	return errs
}

type accountUpdateRequest struct {
	Name         *string              `json:"name,omitempty"`
	Email        *string              `json:"email,omitempty"`
	Password     *string              `json:"password,omitempty"`
	Verification *models.Verification `json:"verification,omitempty"`
	Status       *string              `json:"status,omitempty"`
}

func (r *accountUpdateRequest) validate() []fieldError {
	var errs []fieldError
	if r.Name != nil {
		errs = checkName(errs, *r.Name)
	}
	if r.Email != nil {
		errs = checkEmail(errs, *r.Email)
	}
	if r.Password != nil {
		errs = checkPassword(errs, "password", *r.Password)
	}
	if r.Verification != nil {
		errs = checkRequired(errs, "verification.question", r.Verification.Question)
		errs = checkRequired(errs, "verification.answer", r.Verification.Answer)
	}
	if r.Status != nil {
		if _, err := models.ParseStatus(*r.Status); err != nil {
			errs = append(errs, fieldError{Field: "status", Message: "unknown status"})
		}
	}
	return errs
}
