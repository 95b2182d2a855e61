package backend

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StubClient is the null-object backend used when no service is configured.
// The timer and dashboard keep working: nobody is ever signed in, reads
// come back empty, and session inserts succeed without going anywhere.
// Account operations report that the backend is not configured.
type StubClient struct{}

func NewStubClient() *StubClient {
	return &StubClient{}
}

func (s *StubClient) CurrentUser(ctx context.Context) (*User, error) {
	return nil, nil
}

func (s *StubClient) ListSessions(ctx context.Context, userID string, limit int) ([]FocusSession, error) {
	_ = ClampLimit(limit)
	return nil, nil
}

func (s *StubClient) InsertSession(ctx context.Context, userID string, durationMinutes int, completedAt time.Time) (*FocusSession, error) {
	if err := ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}
	// Mint a row that never persists so callers see the same shape as the
	// real service.
	return &FocusSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		DurationMinutes: durationMinutes,
		CompletedAt:     completedAt,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func (s *StubClient) SignUp(ctx context.Context, email, password, displayName string) (*SignUpResult, error) {
	return nil, ErrNotConfigured
}

func (s *StubClient) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	return nil, ErrNotConfigured
}

func (s *StubClient) SignOut(ctx context.Context) error {
	return nil
}

func (s *StubClient) ResetPassword(ctx context.Context, email string) error {
	return ErrNotConfigured
}

func (s *StubClient) UpdatePassword(ctx context.Context, newPassword string) error {
	return ErrNotConfigured
}

func (s *StubClient) ExchangeCode(ctx context.Context, code string) (*AuthSession, error) {
	return nil, ErrNotConfigured
}
