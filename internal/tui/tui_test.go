package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/selahfocus/selah/internal/backend"
	"github.com/selahfocus/selah/internal/store"
	"github.com/selahfocus/selah/internal/timer"
)

func newTestContext(t *testing.T) *appContext {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return &appContext{client: backend.NewStubClient(), store: s}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Timer view
// ============================================================

func TestTimerViewStartsFromStoredDefault(t *testing.T) {
	ctx := newTestContext(t)
	ctx.store.SetSetting(store.KeyDefaultMinutes, "40")

	tv := newTimerView(ctx)
	if got := tv.countdown.Remaining(); got != 40*time.Minute {
		t.Fatalf("expected 40m, got %v", got)
	}
	if tv.countdown.State() != timer.StateIdle {
		t.Fatal("timer should start idle")
	}
}

func TestTimerViewToggle(t *testing.T) {
	ctx := newTestContext(t)
	tv := newTimerView(ctx)

	tv, _ = tv.update(keyPress("space"))
	if !tv.running() {
		t.Fatal("space should start the countdown")
	}

	tv, _ = tv.update(keyPress("space"))
	if tv.running() {
		t.Fatal("space should pause the countdown")
	}
}

func TestTimerViewReset(t *testing.T) {
	ctx := newTestContext(t)
	tv := newTimerView(ctx)

	tv, _ = tv.update(keyPress("space"))
	tv, _ = tv.update(keyPress("r"))
	if tv.countdown.State() != timer.StateIdle {
		t.Fatal("r should reset to idle")
	}
}

func TestTimerViewEditOnlyWhenStopped(t *testing.T) {
	ctx := newTestContext(t)
	tv := newTimerView(ctx)

	tv, _ = tv.update(keyPress("space"))
	tv, _ = tv.update(keyPress("e"))
	if tv.editing {
		t.Fatal("edit must be refused while running")
	}

	tv, _ = tv.update(keyPress("space")) // pause
	tv, _ = tv.update(keyPress("e"))
	if !tv.editing {
		t.Fatal("edit should open while paused")
	}

	tv, _ = tv.update(keyPress("esc"))
	if tv.editing {
		t.Fatal("esc should cancel the edit")
	}
}

func TestTimerViewCommitEdit(t *testing.T) {
	ctx := newTestContext(t)
	tv := newTimerView(ctx)

	tv, _ = tv.update(keyPress("e"))
	tv.input.SetValue("10:30")
	tv, _ = tv.update(keyPress("enter"))

	if tv.editing {
		t.Fatal("enter should commit the edit")
	}
	want := 10*time.Minute + 30*time.Second
	if got := tv.countdown.Remaining(); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := tv.countdown.Baseline(); got != want {
		t.Fatalf("edit should redefine the baseline, got %v", got)
	}
}

func TestTimerViewRejectsZeroEdit(t *testing.T) {
	ctx := newTestContext(t)
	tv := newTimerView(ctx)
	before := tv.countdown.Remaining()

	tv, _ = tv.update(keyPress("e"))
	tv.input.SetValue("00:00")
	tv, cmd := tv.update(keyPress("enter"))

	if got := tv.countdown.Remaining(); got != before {
		t.Fatalf("zero edit must leave the previous value, got %v", got)
	}
	if cmd == nil {
		t.Fatal("expected an error status")
	}
}

func TestTimerViewSettingsApplyWhenIdle(t *testing.T) {
	ctx := newTestContext(t)
	tv := newTimerView(ctx)

	tv, _ = tv.update(settingsSavedMsg{defaultMinutes: 50, soundOn: false, verseInterval: time.Minute})
	if got := tv.countdown.Remaining(); got != 50*time.Minute {
		t.Fatalf("idle timer should pick up the new default, got %v", got)
	}
	if tv.soundOn {
		t.Fatal("sound setting not applied")
	}
}

func TestParseEdit(t *testing.T) {
	mins, secs, err := parseEdit(" 12:34 ")
	if err != nil || mins != 12 || secs != 34 {
		t.Fatalf("got %d:%d err=%v", mins, secs, err)
	}

	for _, bad := range []string{"", "12", "a:b", "1:2:3"} {
		if _, _, err := parseEdit(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		mins int
		want string
	}{
		{5, "5m"},
		{59, "59m"},
		{60, "1h 00m"},
		{95, "1h 35m"},
	}
	for _, tc := range cases {
		if got := formatMinutes(tc.mins); got != tc.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tc.mins, got, tc.want)
		}
	}
}

func TestRelativeDay(t *testing.T) {
	now := time.Date(2025, 6, 18, 15, 0, 0, 0, time.Local)

	if got := relativeDay(now.Add(-time.Hour), now); got != "Today" {
		t.Errorf("expected Today, got %q", got)
	}
	if got := relativeDay(now.AddDate(0, 0, -1), now); got != "Yesterday" {
		t.Errorf("expected Yesterday, got %q", got)
	}
	if got := relativeDay(now.AddDate(0, 0, -5), now); got != "Jun 13" {
		t.Errorf("expected Jun 13, got %q", got)
	}
}

// ============================================================
// Root app
// ============================================================

func TestAppTabSwitching(t *testing.T) {
	ctx := newTestContext(t)
	app := NewApp(ctx.client, ctx.store, nil)
	app.width = 100
	app.height = 30

	m, _ := app.Update(keyPress("2"))
	app = m.(App)
	if app.activeView != viewDashboard {
		t.Fatalf("expected dashboard, got %v", app.activeView)
	}

	m, _ = app.Update(keyPress("1"))
	app = m.(App)
	if app.activeView != viewTimer {
		t.Fatalf("expected timer, got %v", app.activeView)
	}
}

func TestAppAuthChange(t *testing.T) {
	ctx := newTestContext(t)
	app := NewApp(ctx.client, ctx.store, nil)

	user := &backend.User{ID: "u1", Email: "a@b.c"}
	m, _ := app.Update(authChangedMsg{user: user})
	app = m.(App)
	if !app.ctx.signedIn() {
		t.Fatal("expected signed in")
	}

	m, _ = app.Update(signedOutMsg{})
	app = m.(App)
	if app.ctx.signedIn() {
		t.Fatal("expected signed out")
	}
}

func TestAppSignedInPersistsSession(t *testing.T) {
	ctx := newTestContext(t)
	app := NewApp(ctx.client, ctx.store, nil)

	sess := &backend.AuthSession{
		AccessToken: "token", RefreshToken: "refresh",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      backend.User{ID: "u1", Email: "a@b.c"},
	}
	m, _ := app.Update(signedInMsg{session: sess})
	app = m.(App)

	cached, err := app.ctx.store.LoadAuthSession()
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil || cached.AccessToken != "token" {
		t.Fatal("session was not cached")
	}
}
