package tui

import (
	"fmt"
	"time"

	"github.com/selahfocus/selah/internal/backend"
	"github.com/selahfocus/selah/internal/callback"
	"github.com/selahfocus/selah/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewDashboard
	viewAccount
	viewSettings
)

var viewNames = []string{"Timer", "Dashboard", "Account", "Settings"}

// appContext is the state shared across views: the backend client, the
// local store, and the signed-in user. The root App is the only writer of
// user; views read it by pointer and react to authChangedMsg.
type appContext struct {
	client backend.Client
	store  *store.Store
	user   *backend.User
}

func (c *appContext) signedIn() bool {
	return c.user != nil
}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// authChangedMsg is broadcast whenever the signed-in user changes.
type authChangedMsg struct {
	user *backend.User
}

// signedInMsg and signedOutMsg report the outcome of an account action;
// the root App turns them into authChangedMsg after persisting state.
type signedInMsg struct {
	session *backend.AuthSession
}

type signedOutMsg struct{}

// sessionSavedMsg reports a completed focus session that reached the
// backend.
type sessionSavedMsg struct {
	session *backend.FocusSession
}

type dashboardDataMsg struct {
	sessions []backend.FocusSession
	err      error
}

type settingsDataMsg struct {
	settings []store.Setting
}

// settingsSavedMsg carries the freshly committed settings to the views
// that consume them.
type settingsSavedMsg struct {
	defaultMinutes int
	soundOn        bool
	verseInterval  time.Duration
}

type callbackMsg callback.Result

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func relativeDay(t, now time.Time) string {
	ty, tm, td := t.Local().Date()
	ny, nm, nd := now.Local().Date()
	if ty == ny && tm == nm && td == nd {
		return "Today"
	}
	yest := now.AddDate(0, 0, -1)
	yy, ym, yd := yest.Local().Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}
	return t.Local().Format("Jan 02")
}
