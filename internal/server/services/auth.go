// Package services contains server-side business logic. This file implements
// AuthService, which handles signup, login, session token issuance, and the
// secret-question password reset flow with its account status transitions.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
	"github.com/tarek99samy/AuthBridge-backend/internal/logging"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/auth"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/config"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/repositories/repomanager"
)

// Session bundles a signed token with the account it authenticates.
type Session struct {
	Token   string
	Account *models.Account
}

// AuthService provides credential and session operations:
//   - SignUp / Login: create accounts and verify credentials, minting tokens
//   - ValidateUser / ValidateQuestion / ResetPassword: the recovery flow
//
// Plaintext passwords and answers are hashed here, never in the
// persistence layer.
type AuthService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	hasher        auth.PasswordHasher
	secretKey     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:            db,
		repos:         m,
		hasher:        hasher,
		secretKey:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger,
	}
}

// SignUp creates a new active account and returns a fresh session for it.
// The password and the security answer are hashed before they reach the
// repository.
//
// The existence pre-check deliberately treats lookup failures as "no such
// account" (matching the system this replaces); the unique index on email is
// the authoritative duplicate guard, surfaced by the repository as
// ErrEmailAlreadyInUse.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string, verification models.Verification) (*Session, error) {
	repo := s.repos.Accounts(s.db)

	if existing, err := repo.GetByEmail(ctx, email); err == nil && existing != nil {
		s.logger.Warn(ctx, "email already in use during signup", "email", email)
		return nil, common.ErrEmailAlreadyInUse
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	answerHash, err := s.hasher.Hash(verification.Answer)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:                 uuid.NewString(),
		Email:              email,
		Name:               name,
		PasswordHash:       passwordHash,
		SecurityQuestion:   verification.Question,
		SecurityAnswerHash: answerHash,
		Status:             models.StatusActive,
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrEmailAlreadyInUse) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "signup successful", "email", email)
	return s.newSession(created)
}

// Login verifies the credentials and returns a session. An account in
// pending-reset is refused before the password is even checked; any other
// non-active status is promoted to active as a side effect of the
// successful login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "account not found during login", "email", email)
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	next, err := models.Next(account.Status, models.TriggerLogin)
	if err != nil {
		s.logger.Warn(ctx, "login blocked", "email", email, "status", account.Status)
		return nil, err
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		s.logger.Warn(ctx, "password mismatch during login", "email", email)
		return nil, common.ErrInvalidCredentials
	}

	if account.Status != next {
		if err := repo.UpdateStatus(ctx, email, account.Status, next); err != nil {
			return nil, err
		}
		account.Status = next
	}

	s.logger.Info(ctx, "login successful", "email", email)
	return s.newSession(account)
}

// GetMe returns the account behind an authenticated session.
func (s *AuthService) GetMe(ctx context.Context, email string) (*models.Account, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	return account, nil
}

// ValidateUser starts the recovery flow: it marks the account verified and
// returns the stored security question. The question text itself is
// plaintext; only answers are hashed.
func (s *AuthService) ValidateUser(ctx context.Context, email string) (string, error) {
	repo := s.repos.Accounts(s.db)

	// Any lookup failure reads as "user not found" so the endpoint leaks
	// nothing about storage problems.
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Warn(ctx, "account not found during user verification", "email", email)
		return "", common.ErrUserNotFound
	}

	if err := repo.UpdateStatus(ctx, email, account.Status, models.StatusVerified); err != nil {
		return "", err
	}

	s.logger.Info(ctx, "user verified", "email", email)
	return account.SecurityQuestion, nil
}

// ValidateQuestion checks the security answer and, on success, moves the
// account to pending-reset, locking out normal login until the reset
// completes.
func (s *AuthService) ValidateQuestion(ctx context.Context, email, answer string) (*models.Account, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "account not found during question verification", "email", email)
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Compare(account.SecurityAnswerHash, answer) {
		s.logger.Warn(ctx, "answer mismatch during question verification", "email", email)
		return nil, common.ErrInvalidSecurityAnswer
	}

	next, err := models.Next(account.Status, models.TriggerVerifyAnswer)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateStatus(ctx, email, account.Status, next); err != nil {
		return nil, err
	}
	account.Status = next

	s.logger.Info(ctx, "answer verified", "email", email)
	return account, nil
}

// ResetPassword persists a new password hash and returns the account to
// active, completing the recovery flow.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) (*models.Account, error) {
	repo := s.repos.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "account not found during password reset", "email", email)
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := repo.UpdatePassword(ctx, email, passwordHash, models.StatusActive); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	account.PasswordHash = passwordHash
	account.Status = models.StatusActive

	s.logger.Info(ctx, "password reset successful", "email", email)
	return account, nil
}

// SignToken builds the {name, email} claim set for the account and signs it.
func (s *AuthService) SignToken(account *models.Account) (string, error) {
	token, err := auth.GenerateToken(account.Name, account.Email, s.secretKey, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *AuthService) newSession(account *models.Account) (*Session, error) {
	token, err := s.SignToken(account)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Account: account}, nil
}
