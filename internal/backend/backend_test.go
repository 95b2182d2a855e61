package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(1))
	assert.NoError(t, ValidateDuration(25))
	assert.NoError(t, ValidateDuration(240))

	for _, d := range []int{0, -1, 241, 10000} {
		assert.ErrorIs(t, ValidateDuration(d), ErrInvalidDuration, "duration %d", d)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, MaxListLimit},
		{-5, MaxListLimit},
		{1, 1},
		{500, 500},
		{MaxListLimit, MaxListLimit},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampLimit(tc.in), "limit %d", tc.in)
	}
}

func TestFriendlyMessageKnown(t *testing.T) {
	err := &APIError{Status: 400, Message: "Invalid login credentials"}
	assert.Equal(t, "Email or password is incorrect", FriendlyMessage(err))

	err = &APIError{Status: 400, Message: "User already registered"}
	assert.Equal(t, "An account with this email already exists. Please sign in instead.", FriendlyMessage(err))
}

func TestFriendlyMessageSubstring(t *testing.T) {
	err := &APIError{Status: 429, Message: "For security purposes, you can only request this once every 60 seconds (rate limited)"}
	assert.Equal(t, "Please wait a minute before requesting another email", FriendlyMessage(err))
}

func TestFriendlyMessagePassthrough(t *testing.T) {
	err := errors.New("something nobody mapped")
	assert.Equal(t, "something nobody mapped", FriendlyMessage(err))
}

func TestFriendlyMessageFallbacks(t *testing.T) {
	assert.Equal(t, "", FriendlyMessage(nil))

	// Status-only API error with no body message.
	err := &APIError{Status: 500}
	assert.Equal(t, "An error occurred. Please try again.", FriendlyMessage(err))
}

func TestValidateCredentials(t *testing.T) {
	assert.ErrorIs(t, validateCredentials("", "secretpass"), ErrMissingCredentials)
	assert.ErrorIs(t, validateCredentials("a@b.c", ""), ErrMissingCredentials)
	assert.NoError(t, validateCredentials("a@b.c", "secretpass"))
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, validatePassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, validatePassword("1234567"), ErrPasswordTooShort)
	assert.NoError(t, validatePassword("12345678"))
}
