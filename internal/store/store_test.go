package store

import (
	"testing"
	"time"

	"github.com/selahfocus/selah/internal/backend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/selah.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Reopening must be a no-op migration.
	s.Close()
	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSeeded(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting(KeyDefaultMinutes)
	if err != nil {
		t.Fatal(err)
	}
	if v != "25" {
		t.Errorf("expected default_minutes 25, got %q", v)
	}

	v, err = s.GetSetting(KeyCompletionSound)
	if err != nil {
		t.Fatal(err)
	}
	if v != "on" {
		t.Errorf("expected completion_sound on, got %q", v)
	}

	if got := s.GetSettingInt(KeyVerseInterval, 0); got != 300 {
		t.Errorf("expected verse_interval 300, got %d", got)
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting(KeyDefaultMinutes, "40"); err != nil {
		t.Fatal(err)
	}
	if got := s.GetSettingInt(KeyDefaultMinutes, 0); got != 40 {
		t.Errorf("expected 40, got %d", got)
	}

	// Upsert overwrites.
	if err := s.SetSetting(KeyDefaultMinutes, "15"); err != nil {
		t.Fatal(err)
	}
	if got := s.GetSettingInt(KeyDefaultMinutes, 0); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
}

func TestGetSettingIntFallback(t *testing.T) {
	s := newTestStore(t)

	if got := s.GetSettingInt("no_such_key", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}

	s.SetSetting("garbage", "not-a-number")
	if got := s.GetSettingInt("garbage", 9); got != 9 {
		t.Errorf("expected fallback 9, got %d", got)
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 seeded settings, got %d", len(settings))
	}
}

// ============================================================
// Auth session cache
// ============================================================

func TestAuthSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	// Empty store: no session, no error.
	got, err := s.LoadAuthSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected nil session from empty store")
	}

	sess := &backend.AuthSession{
		AccessToken:  "token-abc",
		RefreshToken: "refresh-abc",
		ExpiresAt:    time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		User: backend.User{
			ID:          "user-1",
			Email:       "a@b.c",
			DisplayName: "Ada",
		},
	}
	if err := s.SaveAuthSession(sess); err != nil {
		t.Fatal(err)
	}

	got, err = s.LoadAuthSession()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected a session")
	}
	if got.AccessToken != sess.AccessToken || got.User.ID != sess.User.ID {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Errorf("expires_at mismatch: want %v, got %v", sess.ExpiresAt, got.ExpiresAt)
	}
}

func TestAuthSessionUpsert(t *testing.T) {
	s := newTestStore(t)

	first := &backend.AuthSession{
		AccessToken: "old", RefreshToken: "old",
		ExpiresAt: time.Now(), User: backend.User{ID: "u1", Email: "a@b.c"},
	}
	second := &backend.AuthSession{
		AccessToken: "new", RefreshToken: "new",
		ExpiresAt: time.Now(), User: backend.User{ID: "u1", Email: "a@b.c"},
	}
	if err := s.SaveAuthSession(first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAuthSession(second); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadAuthSession()
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != "new" {
		t.Errorf("expected upsert to overwrite, got token %q", got.AccessToken)
	}
}

func TestClearAuthSession(t *testing.T) {
	s := newTestStore(t)

	sess := &backend.AuthSession{
		AccessToken: "token", RefreshToken: "refresh",
		ExpiresAt: time.Now(), User: backend.User{ID: "u1", Email: "a@b.c"},
	}
	if err := s.SaveAuthSession(sess); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearAuthSession(); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadAuthSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("expected session cleared")
	}
}

func TestSaveNilAuthSession(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveAuthSession(nil); err == nil {
		t.Fatal("expected error for nil session")
	}
}
