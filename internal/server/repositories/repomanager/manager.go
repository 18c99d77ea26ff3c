package repomanager

import (
	"context"
	"database/sql"

	"github.com/tarek99samy/AuthBridge-backend/internal/dbx"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
