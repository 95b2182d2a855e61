package backend

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors, raised before any remote call.
var (
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

	// ErrNotConfigured is returned by the stub client for operations that
	// need a real backend.
	ErrNotConfigured = errors.New("backend not configured: account features are disabled")

	// ErrNotAuthenticated is returned when an operation requires a
	// signed-in user and there is none.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is a non-2xx response from the backend service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return e.Message
}

// friendlyMessages maps known backend error strings to text fit for the UI.
// Matching is exact first, then substring.
var friendlyMessages = map[string]string{
	"Invalid login credentials":         "Email or password is incorrect",
	"Email not confirmed":               "Please confirm your email before signing in. Check your inbox for the confirmation link.",
	"User already registered":           "An account with this email already exists. Please sign in instead.",
	"Password should be at least 6 characters": "Password must be at least 8 characters long",
	"Email link is invalid or has expired":     "This link has expired. Please request a new one.",
	"Invalid email":                            "Please enter a valid email address",
	"For security purposes, you can only request this once every 60 seconds": "Please wait a minute before requesting another email",
}

// FriendlyMessage turns an error into something a person can act on.
// Unknown backend messages pass through unchanged; a nil or empty error
// falls back to a generic line.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	if msg == "" {
		return "An error occurred. Please try again."
	}
	if friendly, ok := friendlyMessages[msg]; ok {
		return friendly
	}
	for key, friendly := range friendlyMessages {
		if strings.Contains(msg, key) {
			return friendly
		}
	}
	return msg
}
