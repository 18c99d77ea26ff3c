// Command bootstrap creates an initial account directly against the
// database. It is meant for provisioning the first administrative user
// before the HTTP API has anyone who can log in.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tarek99samy/AuthBridge-backend/internal/logging"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/auth"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/config"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/repositories/repomanager"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/services"
)

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptSecret(label string) (string, error) {
	fmt.Printf("%s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	m, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	in := bufio.NewReader(os.Stdin)
	name, err := prompt(in, "Name")
	if err != nil {
		return err
	}
	email, err := prompt(in, "Email")
	if err != nil {
		return err
	}
	password, err := promptSecret("Password")
	if err != nil {
		return err
	}
	question, err := prompt(in, "Security question")
	if err != nil {
		return err
	}
	answer, err := promptSecret("Security answer")
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	accountSvc := services.NewAccountService(db, m, hasher, logger)

	account, err := accountSvc.Create(ctx, services.AccountInput{
		Email:    email,
		Name:     name,
		Password: password,
		Verification: models.Verification{
			Question: question,
			Answer:   answer,
		},
		Status: models.StatusActive,
	})
	if err != nil {
		return fmt.Errorf("create account error: %w", err)
	}

	fmt.Printf("created account %s (%s)\n", account.Email, account.ID)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
