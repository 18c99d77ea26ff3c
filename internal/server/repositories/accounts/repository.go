package accounts

import (
	"context"

	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
)

// Repository is the persistence port for accounts.
//
// UpdateStatus is a conditional write keyed on the status the caller read;
// it is how the auth flow avoids lost updates when two requests race on the
// same email.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	UpdateStatus(ctx context.Context, email string, from, to models.Status) error
	UpdatePassword(ctx context.Context, email, passwordHash string, status models.Status) error
	Delete(ctx context.Context, id string) error
}
