// Package backend talks to the hosted auth/database service that owns user
// accounts and focus session rows. The app never stores sessions locally;
// it only issues CRUD calls against this service.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// Session durations accepted by the service, in whole minutes.
	MinSessionMinutes = 1
	MaxSessionMinutes = 240

	// MaxListLimit bounds how many sessions a single list call may request.
	MaxListLimit = 1000
	// Password policy enforced before any remote call.
	MinPasswordLength = 8
)

// User is the authenticated account identity.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// FocusSession is one completed focus interval. Rows are immutable once
// created; the service enforces this with row-level policies, so the client
// exposes no update or delete call.
type FocusSession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	DurationMinutes int       `json:"duration_minutes"`
	CompletedAt     time.Time `json:"completed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// AuthSession is the token pair returned by a successful sign-in or code
// exchange.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// SignUpResult reports whether the new account still needs an email
// confirmation round-trip before it can sign in.
type SignUpResult struct {
	Session           *AuthSession
	NeedsConfirmation bool
}

// Client is the hosted backend. Two implementations exist: a remote HTTP
// client and a no-op stub used when the service is not configured. The
// choice is made once at startup from config, never by type inspection at
// call sites.
type Client interface {
	// CurrentUser returns the signed-in user, or nil when nobody is
	// signed in. An auth failure is reported as a nil user, not an error.
	CurrentUser(ctx context.Context) (*User, error)

	// ListSessions returns the user's sessions ordered by completion time
	// descending. The limit is clamped to [1, 1000]; values <= 0 request
	// the maximum.
	ListSessions(ctx context.Context, userID string, limit int) ([]FocusSession, error)

	// InsertSession records one completed session. Durations outside
	// [1, 240] minutes are rejected before any remote call.
	InsertSession(ctx context.Context, userID string, durationMinutes int, completedAt time.Time) (*FocusSession, error)

	SignUp(ctx context.Context, email, password, displayName string) (*SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context) error
	// ResetPassword asks the service to email a recovery link.
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, newPassword string) error
	// ExchangeCode trades a one-time authorization code (from the email
	// confirmation or OAuth return flow) for an auth session.
	ExchangeCode(ctx context.Context, code string) (*AuthSession, error)
}

// ValidateDuration checks a session length against the service's bounds.
func ValidateDuration(minutes int) error {
	if minutes < MinSessionMinutes || minutes > MaxSessionMinutes {
		return fmt.Errorf("%w: must be between %d and %d minutes",
			ErrInvalidDuration, MinSessionMinutes, MaxSessionMinutes)
	}
	return nil
}

// ClampLimit constrains a list limit to [1, MaxListLimit]. Non-positive
// values ask for everything the service will hand over.
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
