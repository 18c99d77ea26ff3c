// Package models contains the persistent entities of the AuthBridge backend.
package models

import "time"

// Verification is the security question/answer pair used to authorize a
// password reset. The answer is plaintext on input and a bcrypt hash at rest.
type Verification struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Account is a registered user identity keyed by email.
//
// PasswordHash and SecurityAnswerHash always hold bcrypt output once
// persisted; plaintext never reaches the repository layer.
type Account struct {
	ID                 string
	Email              string
	Name               string
	PasswordHash       string
	SecurityQuestion   string
	SecurityAnswerHash string
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PublicAccount is the sanitized account representation returned to clients.
// Hashes, the verification pair, and storage timestamps are omitted.
type PublicAccount struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status Status `json:"status"`
}

// Public returns the sanitized view of the account.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Status: a.Status,
	}
}
