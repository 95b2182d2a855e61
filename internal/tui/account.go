package tui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/selahfocus/selah/internal/backend"
)

type accountMode int

const (
	accountMenu accountMode = iota
	accountSignIn
	accountSignUp
	accountReset
	accountChangePassword
)

type accountView struct {
	ctx    *appContext
	width  int
	height int

	mode       accountMode
	cursor     int
	form       *huh.Form
	formActive bool

	// Form values as pointers (survive value copies).
	email       *string
	password    *string
	confirm     *string
	displayName *string
}

func newAccountView(ctx *appContext) accountView {
	email, password, confirm, name := "", "", "", ""
	return accountView{
		ctx:         ctx,
		email:       &email,
		password:    &password,
		confirm:     &confirm,
		displayName: &name,
	}
}

func (a *accountView) setSize(w, h int) {
	a.width = w
	a.height = h
}

func (a accountView) menuItems() []string {
	if a.ctx.signedIn() {
		return []string{"Change password", "Sign out"}
	}
	return []string{"Sign in", "Create account", "Forgot password"}
}

func (a accountView) update(msg tea.Msg) (accountView, tea.Cmd) {
	if a.formActive && a.form != nil {
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case authChangedMsg:
		a.mode = accountMenu
		a.cursor = 0
		return a, nil

	case tea.KeyMsg:
		items := a.menuItems()
		switch {
		case key.Matches(msg, keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(msg, keys.Down):
			if a.cursor < len(items)-1 {
				a.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return a.selectItem()
		}
	}
	return a, nil
}

func (a accountView) selectItem() (accountView, tea.Cmd) {
	if a.ctx.signedIn() {
		switch a.cursor {
		case 0:
			return a.showForm(accountChangePassword)
		case 1:
			return a, a.signOut()
		}
		return a, nil
	}
	switch a.cursor {
	case 0:
		return a.showForm(accountSignIn)
	case 1:
		return a.showForm(accountSignUp)
	case 2:
		return a.showForm(accountReset)
	}
	return a, nil
}

func (a accountView) showForm(mode accountMode) (accountView, tea.Cmd) {
	*a.email = ""
	*a.password = ""
	*a.confirm = ""
	*a.displayName = ""
	a.mode = mode

	emailField := huh.NewInput().Title("Email").Value(a.email).
		Validate(func(s string) error {
			if !strings.Contains(s, "@") {
				return errors.New("enter a valid email address")
			}
			return nil
		})
	passwordField := huh.NewInput().Title("Password").Value(a.password).
		EchoMode(huh.EchoModePassword)
	newPasswordField := huh.NewInput().Title("Password").Value(a.password).
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if len(s) < backend.MinPasswordLength {
				return backend.ErrPasswordTooShort
			}
			return nil
		})
	confirmField := huh.NewInput().Title("Confirm password").Value(a.confirm).
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if s != *a.password {
				return errors.New("passwords do not match")
			}
			return nil
		})

	switch mode {
	case accountSignIn:
		a.form = huh.NewForm(huh.NewGroup(emailField, passwordField).Title("Sign In"))
	case accountSignUp:
		a.form = huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Display name (optional)").Value(a.displayName),
			emailField,
			newPasswordField,
			confirmField,
		).Title("Create Account"))
	case accountReset:
		a.form = huh.NewForm(huh.NewGroup(emailField).Title("Forgot Password").
			Description("We'll email you a reset link."))
	case accountChangePassword:
		a.form = huh.NewForm(huh.NewGroup(newPasswordField, confirmField).Title("Change Password"))
	}
	a.form = a.form.WithShowHelp(true).WithShowErrors(true)
	a.formActive = true
	return a, a.form.Init()
}

func (a accountView) updateForm(msg tea.Msg) (accountView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			a.mode = accountMenu
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		submit := a.submit()
		a.form = nil
		a.mode = accountMenu
		return a, submit
	}

	return a, cmd
}

// submit runs the remote call for the just-completed form. Field-level
// validation already happened inside the form, before any network traffic.
func (a accountView) submit() tea.Cmd {
	mode := a.mode
	client := a.ctx.client
	email, password, name := *a.email, *a.password, *a.displayName

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		switch mode {
		case accountSignIn:
			sess, err := client.SignIn(ctx, email, password)
			if err != nil {
				return statusMsg{text: backend.FriendlyMessage(err), isError: true}
			}
			return signedInMsg{session: sess}

		case accountSignUp:
			res, err := client.SignUp(ctx, email, password, name)
			if err != nil {
				return statusMsg{text: backend.FriendlyMessage(err), isError: true}
			}
			if res.NeedsConfirmation {
				return statusMsg{text: "Check your inbox and confirm your email to finish signing up."}
			}
			return signedInMsg{session: res.Session}

		case accountReset:
			if err := client.ResetPassword(ctx, email); err != nil {
				return statusMsg{text: backend.FriendlyMessage(err), isError: true}
			}
			return statusMsg{text: "Reset link sent. Check your inbox."}

		case accountChangePassword:
			if err := client.UpdatePassword(ctx, password); err != nil {
				return statusMsg{text: backend.FriendlyMessage(err), isError: true}
			}
			return statusMsg{text: "Password updated."}
		}
		return nil
	}
}

func (a accountView) signOut() tea.Cmd {
	client := a.ctx.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.SignOut(ctx); err != nil {
			// Sign-out is local-first; the dead remote token is tolerable.
			log.Printf("remote sign-out failed: %v", err)
		}
		return signedOutMsg{}
	}
}

func (a accountView) view() string {
	if a.width < 20 {
		return "Terminal too small"
	}
	w := a.width - 4

	if a.formActive && a.form != nil {
		return panelStyle.Width(w).Render(a.form.View())
	}

	var rows []string
	if a.ctx.signedIn() {
		u := a.ctx.user
		who := u.Email
		if u.DisplayName != "" {
			who = u.DisplayName + " · " + u.Email
		}
		rows = append(rows, titleStyle.Render("Account"))
		rows = append(rows, "")
		rows = append(rows, successStyle.Render("● ")+normalItemStyle.Render(who))
		rows = append(rows, "")
	} else {
		rows = append(rows, titleStyle.Render("Account"))
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("Sign in to save focus sessions across devices."))
		rows = append(rows, "")
	}

	for i, item := range a.menuItems() {
		cursor := "  "
		style := normalItemStyle
		if i == a.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+item))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  ↑/↓: move"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
