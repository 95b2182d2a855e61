package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/selahfocus/selah/internal/backend"
)

// SaveAuthSession caches the signed-in session so a restart stays signed
// in. There is at most one row.
func (s *Store) SaveAuthSession(sess *backend.AuthSession) error {
	if sess == nil {
		return errors.New("nil auth session")
	}
	_, err := s.db.Exec(
		`INSERT INTO auth_session (id, access_token, refresh_token, expires_at, user_id, email, display_name)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   access_token = excluded.access_token,
		   refresh_token = excluded.refresh_token,
		   expires_at = excluded.expires_at,
		   user_id = excluded.user_id,
		   email = excluded.email,
		   display_name = excluded.display_name`,
		sess.AccessToken, sess.RefreshToken,
		sess.ExpiresAt.UTC().Format(time.RFC3339),
		sess.User.ID, sess.User.Email, sess.User.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("save auth session: %w", err)
	}
	return nil
}

// LoadAuthSession returns the cached session, or nil when signed out.
func (s *Store) LoadAuthSession() (*backend.AuthSession, error) {
	var sess backend.AuthSession
	var expiresAt string
	err := s.db.QueryRow(
		`SELECT access_token, refresh_token, expires_at, user_id, email, display_name FROM auth_session WHERE id = 1`,
	).Scan(&sess.AccessToken, &sess.RefreshToken, &expiresAt,
		&sess.User.ID, &sess.User.Email, &sess.User.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load auth session: %w", err)
	}
	sess.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return &sess, nil
}

// ClearAuthSession forgets the cached session on sign-out.
func (s *Store) ClearAuthSession() error {
	_, err := s.db.Exec(`DELETE FROM auth_session WHERE id = 1`)
	return err
}
