// Package accounts provides the PostgreSQL-backed account repository.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
	"github.com/tarek99samy/AuthBridge-backend/internal/dbx"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, name, password_hash, security_question, security_answer_hash, status, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash,
		&a.SecurityQuestion, &a.SecurityAnswerHash, &a.Status,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, email, name, password_hash, security_question, security_answer_hash, status)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING created_at, updated_at
         `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.SecurityQuestion, account.SecurityAnswerHash, account.Status).
		Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
         SET email = $2, name = $3, password_hash = $4, security_question = $5,
             security_answer_hash = $6, status = $7, updated_at = now()
         WHERE id = $1
         RETURNING updated_at
         `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.SecurityQuestion, account.SecurityAnswerHash, account.Status).
		Scan(&account.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// UpdateStatus moves an account from one status to another only if it is
// still in the expected prior status, so concurrent transitions on the same
// email cannot silently overwrite each other.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, email string, from, to models.Status) error {
	query :=
		`UPDATE accounts SET status = $3, updated_at = now()
         WHERE email = $1 AND status = $2
         `

	res, err := r.db.ExecContext(ctx, query, email, from, to)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrStatusConflict
	}

	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, passwordHash string, status models.Status) error {
	query :=
		`UPDATE accounts SET password_hash = $2, status = $3, updated_at = now()
         WHERE email = $1
         `

	res, err := r.db.ExecContext(ctx, query, email, passwordHash, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
