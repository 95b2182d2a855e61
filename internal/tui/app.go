package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/selahfocus/selah/internal/backend"
	"github.com/selahfocus/selah/internal/callback"
	"github.com/selahfocus/selah/internal/export"
	"github.com/selahfocus/selah/internal/store"
)

// tickInterval drives the countdown redraw and verse rotation. The
// countdown derives remaining time from the wall clock, so a late tick
// costs nothing but display latency.
const tickInterval = 250 * time.Millisecond

// App is the root Bubble Tea model.
type App struct {
	ctx    *appContext
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timer     timerView
	dashboard dashboardView
	account   accountView
	settings  settingsView

	callbacks <-chan callback.Result

	help   help.Model
	status string
}

// NewApp wires the views around the shared context. callbacks may be nil
// when the local auth return-flow server is disabled.
func NewApp(client backend.Client, st *store.Store, callbacks <-chan callback.Result) App {
	h := help.New()
	h.ShowAll = false

	ctx := &appContext{client: client, store: st}
	return App{
		ctx:        ctx,
		activeView: viewTimer,
		timer:      newTimerView(ctx),
		dashboard:  newDashboardView(ctx),
		account:    newAccountView(ctx),
		settings:   newSettingsView(ctx),
		callbacks:  callbacks,
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.loadCurrentUser(),
		tickCmd(),
	}
	if a.callbacks != nil {
		cmds = append(cmds, a.waitForCallback())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadCurrentUser asks the backend who is signed in, typically resuming a
// cached session installed at startup.
func (a App) loadCurrentUser() tea.Cmd {
	client := a.ctx.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		user, err := client.CurrentUser(ctx)
		if err != nil {
			log.Printf("current user lookup failed: %v", err)
		}
		return authChangedMsg{user: user}
	}
}

func (a App) waitForCallback() tea.Cmd {
	ch := a.callbacks
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return callbackMsg(r)
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.account.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Forms and the time editor capture everything first.
		if a.isCapturingInput() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewAccount
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, a.refreshCurrentView()
		}
		return a.updateActiveView(msg)

	case tickMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case authChangedMsg:
		a.ctx.user = msg.user
		return a, a.broadcastAuth(msg)

	case signedInMsg:
		return a.handleSignedIn(msg.session, "Signed in.")

	case signedOutMsg:
		if err := a.ctx.store.ClearAuthSession(); err != nil {
			log.Printf("clear auth session: %v", err)
		}
		a.ctx.user = nil
		a.status = "Signed out."
		return a, a.broadcastAuth(authChangedMsg{user: nil})

	case callbackMsg:
		return a.handleCallback(callback.Result(msg))

	case sessionSavedMsg:
		a.status = fmt.Sprintf("Saved a %d minute focus session.", msg.session.DurationMinutes)
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case settingsSavedMsg:
		a.status = "Settings saved."
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) handleSignedIn(sess *backend.AuthSession, note string) (tea.Model, tea.Cmd) {
	if sess == nil {
		return a, nil
	}
	if err := a.ctx.store.SaveAuthSession(sess); err != nil {
		log.Printf("save auth session: %v", err)
	}
	a.ctx.user = &sess.User
	a.status = note
	return a, a.broadcastAuth(authChangedMsg{user: a.ctx.user})
}

// handleCallback lands the browser return flow in the TUI: a confirmed
// signup or OAuth exchange signs the user in, a recovery link opens the
// password form.
func (a App) handleCallback(r callback.Result) (tea.Model, tea.Cmd) {
	resume := tea.Cmd(nil)
	if a.callbacks != nil {
		resume = a.waitForCallback()
	}

	if r.Err != nil {
		a.status = backend.FriendlyMessage(r.Err)
		return a, resume
	}

	note := "Signed in."
	switch r.Type {
	case "signup":
		note = "Email confirmed! Welcome to Selah."
	case "recovery":
		note = "Reset link verified. Choose a new password."
		a.activeView = viewAccount
	}

	model, cmd := a.handleSignedIn(r.Session, note)
	return model, tea.Batch(cmd, resume)
}

// broadcastAuth fans an auth change out to every view that cares.
func (a *App) broadcastAuth(msg authChangedMsg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.update(msg)
	cmds = append(cmds, cmd)
	a.account, cmd = a.account.update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewAccount:
		a.account, cmd = a.account.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturingInput() bool {
	switch a.activeView {
	case viewTimer:
		return a.timer.editing
	case viewAccount:
		return a.account.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewDashboard:
		content = a.dashboard.view()
	case viewAccount:
		content = a.account.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("selah")

	who := ""
	if a.ctx.signedIn() {
		who = mutedStyle.Render(a.ctx.user.Email)
	}

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - lipgloss.Width(who) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow, " ", who),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator when the timer is out of sight.
	timerInfo := ""
	if a.timer.running() && a.activeView != viewTimer {
		secs := int(a.timer.remaining().Seconds())
		timerInfo = successStyle.Render(fmt.Sprintf(" ● %02d:%02d", secs/60, secs%60))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Sessions")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		if !ctx.signedIn() {
			return statusMsg{text: "Sign in to export your sessions.", isError: true}
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sessions, err := ctx.client.ListSessions(reqCtx, ctx.user.ID, backend.MaxListLimit)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("selah-export-%s.csv", dateStr))
			if err := export.ToCSV(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("selah-export-%s.json", dateStr))
			if err := export.ToJSON(sessions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
