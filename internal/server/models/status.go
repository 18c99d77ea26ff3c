package models

import (
	"github.com/tarek99samy/AuthBridge-backend/internal/common"
)

// Status is the account lifecycle state driving the password-reset flow.
type Status string

const (
	// StatusActive is the default state; normal login is permitted.
	StatusActive Status = "active"
	// StatusVerified means the account owner asked for its security question.
	StatusVerified Status = "verified"
	// StatusPendingReset means the security answer was accepted; login is
	// refused until the reset completes.
	StatusPendingReset Status = "pending-reset"
	// StatusBlocked is an administrative state set only through the CRUD
	// surface, never by the auth flow itself.
	StatusBlocked Status = "blocked"
)

// Trigger identifies the auth-flow event that drives a status transition.
type Trigger int

const (
	// TriggerVerifyUser fires when the security question is requested.
	TriggerVerifyUser Trigger = iota
	// TriggerVerifyAnswer fires when the security answer is accepted.
	TriggerVerifyAnswer
	// TriggerResetPassword fires when a new password is persisted.
	TriggerResetPassword
	// TriggerLogin fires on a credential check that is about to succeed.
	TriggerLogin
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusVerified, StatusPendingReset, StatusBlocked:
		return Status(s), nil
	}
	return "", common.ErrUnknownStatus
}

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Next computes the status an account moves to when trigger fires in the
// current state.
//
// A login attempted while the account is pending-reset is rejected with
// ErrPendingResetBlocked and causes no transition; completing the reset flow
// is the only way back to active. Every other trigger advances the account
// regardless of its current state, which is how the recovery flow can be
// restarted from scratch at any point.
func Next(current Status, trigger Trigger) (Status, error) {
	switch trigger {
	case TriggerVerifyUser:
		return StatusVerified, nil
	case TriggerVerifyAnswer:
		return StatusPendingReset, nil
	case TriggerResetPassword:
		return StatusActive, nil
	case TriggerLogin:
		if current == StatusPendingReset {
			return current, common.ErrPendingResetBlocked
		}
		return StatusActive, nil
	}
	return current, common.ErrUnknownStatus
}
