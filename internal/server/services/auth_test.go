package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tarek99samy/AuthBridge-backend/internal/common"
	"github.com/tarek99samy/AuthBridge-backend/internal/dbx"
	"github.com/tarek99samy/AuthBridge-backend/internal/logging"
	srvauth "github.com/tarek99samy/AuthBridge-backend/internal/server/auth"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/config"
	"github.com/tarek99samy/AuthBridge-backend/internal/server/models"
	accountsrepo "github.com/tarek99samy/AuthBridge-backend/internal/server/repositories/accounts"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testHasher() srvauth.PasswordHasher {
	return srvauth.NewBcryptHasher(bcrypt.MinCost)
}

func mustHash(t *testing.T, plaintext string) string {
	t.Helper()
	h, err := testHasher().Hash(plaintext)
	require.NoError(t, err)
	return h
}

// fakeAccountsRepo holds at most one account and mimics the conditional
// semantics of the Postgres repository.
type fakeAccountsRepo struct {
	account *models.Account

	createErr         error
	getErr            error
	updateStatusErr   error
	updatePasswordErr error

	statusCalls [][2]models.Status
}

func (f *fakeAccountsRepo) clone() *models.Account {
	if f.account == nil {
		return nil
	}
	c := *f.account
	return &c
}

func (f *fakeAccountsRepo) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.account != nil && f.account.Email == account.Email {
		return nil, common.ErrEmailAlreadyInUse
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	f.account = account
	return f.clone(), nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if f.account == nil || f.account.ID != id {
		return nil, common.ErrorNotFound
	}
	return f.clone(), nil
}

func (f *fakeAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.account == nil || f.account.Email != email {
		return nil, common.ErrorNotFound
	}
	return f.clone(), nil
}

func (f *fakeAccountsRepo) List(ctx context.Context) ([]*models.Account, error) {
	if f.account == nil {
		return nil, nil
	}
	return []*models.Account{f.clone()}, nil
}

func (f *fakeAccountsRepo) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	if f.account == nil || f.account.ID != account.ID {
		return nil, common.ErrorNotFound
	}
	account.UpdatedAt = time.Now()
	f.account = account
	return f.clone(), nil
}

func (f *fakeAccountsRepo) UpdateStatus(ctx context.Context, email string, from, to models.Status) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	f.statusCalls = append(f.statusCalls, [2]models.Status{from, to})
	if f.account == nil || f.account.Email != email || f.account.Status != from {
		return common.ErrStatusConflict
	}
	f.account.Status = to
	return nil
}

func (f *fakeAccountsRepo) UpdatePassword(ctx context.Context, email, passwordHash string, status models.Status) error {
	if f.updatePasswordErr != nil {
		return f.updatePasswordErr
	}
	if f.account == nil || f.account.Email != email {
		return common.ErrorNotFound
	}
	f.account.PasswordHash = passwordHash
	f.account.Status = status
	return nil
}

func (f *fakeAccountsRepo) Delete(ctx context.Context, id string) error {
	if f.account == nil || f.account.ID != id {
		return common.ErrorNotFound
	}
	f.account = nil
	return nil
}

type fakeRepoManager struct {
	a *fakeAccountsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.a }

func newAuthService(t *testing.T, db *sql.DB, repo *fakeAccountsRepo) *AuthService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
	return NewAuthService(db, &fakeRepoManager{a: repo}, testHasher(), cfg, testLogger())
}

func storedAccount(t *testing.T, status models.Status) *models.Account {
	t.Helper()
	return &models.Account{
		ID:                 "id-1",
		Email:              "alice@example.com",
		Name:               "Alice",
		PasswordHash:       mustHash(t, "P@ssw0rd1"),
		SecurityQuestion:   "favorite color?",
		SecurityAnswerHash: mustHash(t, "blue"),
		Status:             status,
	}
}

// --- SignUp ---

func TestSignUp_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{}
	s := newAuthService(t, db, repo)

	session, err := s.SignUp(context.Background(), "alice@example.com", "P@ssw0rd1", "Alice",
		models.Verification{Question: "favorite color?", Answer: "blue"})
	require.NoError(t, err)

	require.NotNil(t, session.Account)
	assert.Equal(t, models.StatusActive, session.Account.Status)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.Account.ID)

	// stored values are hashes, never plaintext
	assert.NotEqual(t, "P@ssw0rd1", repo.account.PasswordHash)
	assert.NotEqual(t, "blue", repo.account.SecurityAnswerHash)
	assert.Equal(t, "favorite color?", repo.account.SecurityQuestion)

	claims, err := srvauth.ParseToken(session.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
}

func TestSignUp_EmailAlreadyInUse(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusActive)}
	s := newAuthService(t, db, repo)

	before := *repo.account
	_, err := s.SignUp(context.Background(), "alice@example.com", "other", "Mallory",
		models.Verification{Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, common.ErrEmailAlreadyInUse)
	assert.Equal(t, before, *repo.account, "existing account must not be mutated")
}

func TestSignUp_LookupErrorTreatedAsAbsent(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{getErr: errors.New("db down")}
	s := newAuthService(t, db, repo)

	session, err := s.SignUp(context.Background(), "bob@example.com", "P@ssw0rd1", "Bob",
		models.Verification{Question: "q", Answer: "a"})
	require.NoError(t, err, "lookup errors are swallowed; the unique index is the real guard")
	assert.NotEmpty(t, session.Token)
}

func TestSignUp_CreateUniqueViolation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{getErr: errors.New("db down"), createErr: common.ErrEmailAlreadyInUse}
	s := newAuthService(t, db, repo)

	_, err := s.SignUp(context.Background(), "alice@example.com", "P@ssw0rd1", "Alice",
		models.Verification{Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, common.ErrEmailAlreadyInUse)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusActive)}
	s := newAuthService(t, db, repo)

	session, err := s.Login(context.Background(), "alice@example.com", "P@ssw0rd1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, session.Account.Status)
	assert.NotEmpty(t, session.Token)
	assert.Empty(t, repo.statusCalls, "an already-active account needs no promotion")
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{}
	s := newAuthService(t, db, repo)

	_, err := s.Login(context.Background(), "nobody@example.com", "x")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusActive)}
	s := newAuthService(t, db, repo)

	_, err := s.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_PendingResetBlockedEvenWithCorrectPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusPendingReset)}
	s := newAuthService(t, db, repo)

	_, err := s.Login(context.Background(), "alice@example.com", "P@ssw0rd1")
	assert.ErrorIs(t, err, common.ErrPendingResetBlocked)
	assert.Equal(t, models.StatusPendingReset, repo.account.Status, "no transition on rejected login")
	assert.Empty(t, repo.statusCalls)
}

func TestLogin_PromotesNonActiveStatus(t *testing.T) {
	for _, from := range []models.Status{models.StatusVerified, models.StatusBlocked} {
		db, _ := newSQLMockDB(t)
		repo := &fakeAccountsRepo{account: storedAccount(t, from)}
		s := newAuthService(t, db, repo)

		session, err := s.Login(context.Background(), "alice@example.com", "P@ssw0rd1")
		require.NoError(t, err, from)
		assert.Equal(t, models.StatusActive, session.Account.Status)
		assert.Equal(t, models.StatusActive, repo.account.Status)
		require.Len(t, repo.statusCalls, 1)
		assert.Equal(t, [2]models.Status{from, models.StatusActive}, repo.statusCalls[0])
	}
}

func TestLogin_PromotionConflictPropagates(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{
		account:         storedAccount(t, models.StatusVerified),
		updateStatusErr: common.ErrStatusConflict,
	}
	s := newAuthService(t, db, repo)

	_, err := s.Login(context.Background(), "alice@example.com", "P@ssw0rd1")
	assert.ErrorIs(t, err, common.ErrStatusConflict)
}

// --- GetMe ---

func TestGetMe(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusActive)}
	s := newAuthService(t, db, repo)

	account, err := s.GetMe(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", account.Name)

	_, err = s.GetMe(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

// --- Recovery flow ---

func TestValidateUser_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{}
	s := newAuthService(t, db, repo)

	_, err := s.ValidateUser(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestValidateUser_ReturnsQuestionAndMarksVerified(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusActive)}
	s := newAuthService(t, db, repo)

	question, err := s.ValidateUser(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "favorite color?", question)
	assert.Equal(t, models.StatusVerified, repo.account.Status)
}

func TestValidateQuestion_WrongAnswerLeavesStatus(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusVerified)}
	s := newAuthService(t, db, repo)

	_, err := s.ValidateQuestion(context.Background(), "alice@example.com", "green")
	assert.ErrorIs(t, err, common.ErrInvalidSecurityAnswer)
	assert.Equal(t, models.StatusVerified, repo.account.Status)
	assert.Empty(t, repo.statusCalls)
}

func TestValidateQuestion_CorrectAnswer(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusVerified)}
	s := newAuthService(t, db, repo)

	account, err := s.ValidateQuestion(context.Background(), "alice@example.com", "blue")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReset, account.Status)
	assert.Equal(t, models.StatusPendingReset, repo.account.Status)
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{}
	s := newAuthService(t, db, repo)

	_, err := s.ResetPassword(context.Background(), "nobody@example.com", "NewP@ss1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestResetPassword_SetsHashAndActive(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusPendingReset)}
	s := newAuthService(t, db, repo)

	account, err := s.ResetPassword(context.Background(), "alice@example.com", "NewP@ss1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, account.Status)
	assert.NotEqual(t, "NewP@ss1", repo.account.PasswordHash)
	assert.True(t, testHasher().Compare(repo.account.PasswordHash, "NewP@ss1"))
}

// Full recovery round-trip: verify-user, verify-question, reset, login.
func TestRecoveryRoundTrip(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := &fakeAccountsRepo{account: storedAccount(t, models.StatusActive)}
	s := newAuthService(t, db, repo)
	ctx := context.Background()

	question, err := s.ValidateUser(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "favorite color?", question)

	_, err = s.ValidateQuestion(ctx, "alice@example.com", "blue")
	require.NoError(t, err)

	// login is refused mid-reset
	_, err = s.Login(ctx, "alice@example.com", "P@ssw0rd1")
	require.ErrorIs(t, err, common.ErrPendingResetBlocked)

	_, err = s.ResetPassword(ctx, "alice@example.com", "NewP@ss1")
	require.NoError(t, err)

	// old password no longer works
	_, err = s.Login(ctx, "alice@example.com", "P@ssw0rd1")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	session, err := s.Login(ctx, "alice@example.com", "NewP@ss1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, session.Account.Status)
}
