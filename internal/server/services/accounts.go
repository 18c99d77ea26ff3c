package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
	"github.com/tarek99samy/AuthBridge-backend/internal/dbx"
	"github.com/tarek99samy/AuthBridge-backend/internal/logging"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/auth"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/repositories/repomanager"
)

// AccountInput carries the fields for an administrative account creation.
type AccountInput struct {
	Email        string
	Name         string
	Password     string
	Verification models.Verification
	Status       models.Status
}

// AccountUpdate carries optional fields for a partial account update. Nil
// pointers leave the stored value untouched. Password and Answer are
// plaintext and get hashed before persistence.
type AccountUpdate struct {
	Email    *string
	Name     *string
	Password *string
	Question *string
	Answer   *string
	Status   *models.Status
}

// AccountService provides the administrative CRUD over account records.
// It is the only path that may set the blocked status; the auth flow never
// does.
type AccountService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	hasher auth.PasswordHasher
	logger logging.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, logger logging.Logger) *AccountService {
	return &AccountService{db: db, repos: m, hasher: hasher, logger: logger}
}

// List returns all accounts.
func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	accounts, err := s.repos.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	return accounts, nil
}

// Get returns the account with the given id.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repos.Accounts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	return account, nil
}

// GetByEmail returns the account with the given email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repos.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	return account, nil
}

// Create inserts a new account. The password and security answer are hashed
// here; an empty status defaults to active.
func (s *AccountService) Create(ctx context.Context, in AccountInput) (*models.Account, error) {
	status := in.Status
	if status == "" {
		status = models.StatusActive
	}
	if !status.Valid() {
		return nil, common.ErrUnknownStatus
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	answerHash, err := s.hasher.Hash(in.Verification.Answer)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		ID:                 uuid.NewString(),
		Email:              in.Email,
		Name:               in.Name,
		PasswordHash:       passwordHash,
		SecurityQuestion:   in.Verification.Question,
		SecurityAnswerHash: answerHash,
		Status:             status,
	}

	created, err := s.repos.Accounts(s.db).Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrEmailAlreadyInUse) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "email", created.Email, "id", created.ID)
	return created, nil
}

// Update applies a partial update to the account with the given id. The
// read-modify-write runs in a transaction so concurrent updates cannot
// interleave.
func (s *AccountService) Update(ctx context.Context, id string, upd AccountUpdate) (*models.Account, error) {
	return s.update(ctx, upd, func(ctx context.Context, tx dbx.DBTX) (*models.Account, error) {
		return s.repos.Accounts(tx).GetByID(ctx, id)
	})
}

// UpdateByEmail applies a partial update to the account with the given email.
func (s *AccountService) UpdateByEmail(ctx context.Context, email string, upd AccountUpdate) (*models.Account, error) {
	return s.update(ctx, upd, func(ctx context.Context, tx dbx.DBTX) (*models.Account, error) {
		return s.repos.Accounts(tx).GetByEmail(ctx, email)
	})
}

// Delete removes the account with the given id.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Accounts(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return common.ErrorInternal
	}
	s.logger.Info(ctx, "account deleted", "id", id)
	return nil
}

func (s *AccountService) update(ctx context.Context, upd AccountUpdate, fetch func(ctx context.Context, tx dbx.DBTX) (*models.Account, error)) (*models.Account, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, common.ErrUnknownStatus
	}

	var updated *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Accounts(tx)

		account, err := fetch(ctx, tx)
		if err != nil {
			return err
		}

		if err := s.apply(account, upd); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, account)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrUserNotFound
		case errors.Is(err, common.ErrEmailAlreadyInUse),
			errors.Is(err, common.ErrUnknownStatus):
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "account updated", "id", updated.ID)
	return updated, nil
}

// apply copies the requested changes onto the account, hashing any
// plaintext secrets. Updates may never persist plaintext, even though the
// system this replaces let administrative updates slip past its hashing
// hook.
func (s *AccountService) apply(account *models.Account, upd AccountUpdate) error {
	if upd.Email != nil {
		account.Email = *upd.Email
	}
	if upd.Name != nil {
		account.Name = *upd.Name
	}
	if upd.Question != nil {
		account.SecurityQuestion = *upd.Question
	}
	if upd.Status != nil {
		account.Status = *upd.Status
	}
	if upd.Password != nil {
		hash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return common.ErrorInternal
		}
		account.PasswordHash = hash
	}
	if upd.Answer != nil {
		hash, err := s.hasher.Hash(*upd.Answer)
		if err != nil {
			return common.ErrorInternal
		}
		account.SecurityAnswerHash = hash
	}
	return nil
}
