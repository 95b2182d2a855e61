package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/selahfocus/selah/internal/backend"
	"github.com/selahfocus/selah/internal/store"
)

type settingsView struct {
	ctx    *appContext
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies).
	defaultMinutes *string
	sound          *string
	verseInterval  *string
}

func newSettingsView(ctx *appContext) settingsView {
	dm, snd, vi := "", "", ""
	return settingsView{
		ctx:            ctx,
		defaultMinutes: &dm,
		sound:          &snd,
		verseInterval:  &vi,
	}
}

func (s *settingsView) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsView) refresh() tea.Cmd {
	st := s.ctx.store
	return func() tea.Msg {
		settings, _ := st.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsView) update(msg tea.Msg) (settingsView, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsView) showForm() (settingsView, tea.Cmd) {
	*s.defaultMinutes = s.getVal(store.KeyDefaultMinutes, "25")
	*s.sound = s.getVal(store.KeyCompletionSound, "on")
	*s.verseInterval = s.getVal(store.KeyVerseInterval, "300")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Session length (min)").Value(s.defaultMinutes).
				Validate(func(v string) error {
					n, err := strconv.Atoi(v)
					if err != nil || n < backend.MinSessionMinutes || n > backend.MaxSessionMinutes {
						return errors.New("must be 1-240")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Completion sound").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(s.sound),
			huh.NewSelect[string]().Title("Verse rotation").
				Options(
					huh.NewOption("Every minute", "60"),
					huh.NewOption("Every 5 minutes", "300"),
					huh.NewOption("Every 15 minutes", "900"),
				).Value(s.verseInterval),
		).Title("Settings"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsView) updateForm(msg tea.Msg) (settingsView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		saved := s.saveSettings()
		return s, tea.Batch(s.refresh(), saved)
	}

	return s, cmd
}

func (s settingsView) saveSettings() tea.Cmd {
	s.ctx.store.SetSetting(store.KeyDefaultMinutes, *s.defaultMinutes)
	s.ctx.store.SetSetting(store.KeyCompletionSound, *s.sound)
	s.ctx.store.SetSetting(store.KeyVerseInterval, *s.verseInterval)

	minutes, _ := strconv.Atoi(*s.defaultMinutes)
	intervalSecs, _ := strconv.Atoi(*s.verseInterval)
	soundOn := *s.sound != "off"
	return func() tea.Msg {
		return settingsSavedMsg{
			defaultMinutes: minutes,
			soundOn:        soundOn,
			verseInterval:  time.Duration(intervalSecs) * time.Second,
		}
	}
}

func (s settingsView) getVal(k, fallback string) string {
	v, err := s.ctx.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsView) view() string {
	if s.width < 20 {
		return "Terminal too small"
	}
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(s.form.View())
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(20).Render(settingLabel(setting.Key))
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	switch k {
	case store.KeyDefaultMinutes:
		return "Session length"
	case store.KeyCompletionSound:
		return "Completion sound"
	case store.KeyVerseInterval:
		return "Verse rotation"
	}
	return k
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyDefaultMinutes:
		return v + " min"
	case store.KeyVerseInterval:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", secs/60)
		}
	}
	return v
}
