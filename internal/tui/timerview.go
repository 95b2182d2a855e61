package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/selahfocus/selah/internal/store"
	"github.com/selahfocus/selah/internal/timer"
	"github.com/selahfocus/selah/internal/verses"
)

// completionEvent is the bridge between the countdown's completion
// callback and the Bubble Tea update loop. It is shared by pointer so the
// value-copied model always sees the latest event.
type completionEvent struct {
	minutes int
	pending bool
}

type timerView struct {
	ctx    *appContext
	width  int
	height int

	countdown *timer.Countdown
	completed *completionEvent
	rotator   *verses.Rotator
	soundOn   bool

	editing bool
	input   textinput.Model
}

func newTimerView(ctx *appContext) timerView {
	minutes := ctx.store.GetSettingInt(store.KeyDefaultMinutes, timer.DefaultMinutes)
	interval := time.Duration(ctx.store.GetSettingInt(store.KeyVerseInterval, 300)) * time.Second
	sound := true
	if v, err := ctx.store.GetSetting(store.KeyCompletionSound); err == nil {
		sound = v != "off"
	}

	cd := timer.New(minutes)
	ev := &completionEvent{}
	cd.SetOnComplete(func(mins int) {
		ev.minutes = mins
		ev.pending = true
	})

	input := textinput.New()
	input.Placeholder = "MM:SS"
	input.CharLimit = 5
	input.Width = 7

	return timerView{
		ctx:       ctx,
		countdown: cd,
		completed: ev,
		rotator:   verses.NewRotator(interval, time.Now()),
		soundOn:   sound,
		input:     input,
	}
}

func (t *timerView) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t timerView) running() bool {
	return t.countdown.State() == timer.StateRunning
}

func (t timerView) remaining() time.Duration {
	return t.countdown.Remaining()
}

func (t timerView) update(msg tea.Msg) (timerView, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		t.rotator.Advance(time.Time(msg))
		t.countdown.Tick()
		if t.completed.pending {
			t.completed.pending = false
			return t, t.onComplete(t.completed.minutes)
		}
		return t, nil

	case settingsSavedMsg:
		t.soundOn = msg.soundOn
		t.rotator = verses.NewRotator(msg.verseInterval, time.Now())
		if t.countdown.State() == timer.StateIdle {
			// A new default takes effect on the next fresh countdown.
			_ = t.countdown.SetDuration(msg.defaultMinutes, 0)
		}
		return t, nil

	case tea.KeyMsg:
		if t.editing {
			return t.updateEdit(msg)
		}
		switch {
		case key.Matches(msg, keys.Toggle):
			if t.countdown.State() != timer.StateComplete {
				t.countdown.Toggle()
			}
			return t, nil
		case key.Matches(msg, keys.Reset):
			t.countdown.Reset()
			return t, nil
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			return t.beginEdit()
		}
	}
	return t, nil
}

func (t timerView) beginEdit() (timerView, tea.Cmd) {
	st := t.countdown.State()
	if st != timer.StateIdle && st != timer.StatePaused {
		return t, nil
	}
	t.editing = true
	t.input.SetValue(timer.FormatClock(int(t.countdown.Remaining().Seconds())))
	t.input.CursorEnd()
	return t, t.input.Focus()
}

func (t timerView) updateEdit(msg tea.KeyMsg) (timerView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		t.editing = false
		t.input.Blur()
		return t, nil
	case "enter":
		return t.commitEdit()
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

// commitEdit applies the typed MM:SS value. Out-of-range parts are clamped
// by the countdown; a zero or unreadable value leaves the previous time on
// display.
func (t timerView) commitEdit() (timerView, tea.Cmd) {
	t.editing = false
	t.input.Blur()

	mins, secs, err := parseEdit(t.input.Value())
	if err != nil {
		return t, status("Enter a time as MM:SS", true)
	}
	if err := t.countdown.SetDuration(mins, secs); err != nil {
		return t, status(err.Error(), true)
	}
	return t, nil
}

// parseEdit reads a loosely formatted minutes:seconds pair. Range clamping
// is the countdown's job; this only insists on two numeric parts.
func parseEdit(input string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(input), ":")
	if len(parts) != 2 {
		return 0, 0, timer.ErrBadClock
	}
	mins, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, timer.ErrBadClock
	}
	secs, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, timer.ErrBadClock
	}
	return mins, secs, nil
}

// onComplete runs the completion side effects: the audible cue, then a
// best-effort write to the backend. Neither failure touches the countdown,
// which has already moved to complete.
func (t timerView) onComplete(minutes int) tea.Cmd {
	if t.soundOn {
		playTone()
	}

	ctx := t.ctx
	return func() tea.Msg {
		if !ctx.signedIn() {
			return statusMsg{text: fmt.Sprintf("Session complete (%d min). Sign in to save your progress.", minutes)}
		}

		reqCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess, err := ctx.client.InsertSession(reqCtx, ctx.user.ID, minutes, time.Now())
		if err != nil {
			log.Printf("save session failed: %v", err)
			return statusMsg{text: "Session complete, but saving it failed.", isError: true}
		}
		return sessionSavedMsg{session: sess}
	}
}

// playTone rings the terminal bell. Some terminals have no bell; that is
// fine and must stay invisible to the timer.
func playTone() {
	_, _ = os.Stdout.WriteString("\a")
}

func (t timerView) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}
	w := t.width - 4

	verse := t.rotator.Current()
	versePanel := lipgloss.JoinVertical(lipgloss.Center,
		verseStyle.Width(w-6).Render("“"+verse.Text+"”"),
		verseRefStyle.Width(w-6).Render("— "+verse.Reference),
	)

	var clock, indicator, hint string
	secondsLeft := int(t.countdown.Remaining().Seconds())

	switch {
	case t.editing:
		clock = t.input.View()
		indicator = mutedStyle.Render("EDITING")
		hint = mutedStyle.Render("enter: apply  esc: cancel")
	default:
		switch t.countdown.State() {
		case timer.StateRunning:
			clock = clockRunningStyle.Width(w - 6).Render(bigClock(secondsLeft))
			indicator = successStyle.Render("●  FOCUSING")
			hint = mutedStyle.Render("space: pause  r: reset")
		case timer.StatePaused:
			clock = clockPausedStyle.Width(w - 6).Render(bigClock(secondsLeft))
			indicator = warningStyle.Render("⏸  PAUSED")
			hint = mutedStyle.Render("space: resume  e: edit  r: reset")
		case timer.StateComplete:
			clock = clockCompleteStyle.Width(w - 6).Render(bigClock(0))
			indicator = highlightStyle.Render("✓  SESSION COMPLETE")
			hint = mutedStyle.Render("r: reset")
		default:
			clock = clockStyle.Width(w - 6).Render(bigClock(secondsLeft))
			indicator = mutedStyle.Render("READY")
			hint = mutedStyle.Render("space: start  e: edit time  r: reset")
		}
	}

	timerPanel := lipgloss.JoinVertical(lipgloss.Center, clock, "", indicator, hint)

	style := panelStyle
	if t.countdown.State() == timer.StateRunning {
		style = activePanelStyle
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(w).Render(versePanel),
		style.Width(w).Render(timerPanel),
	)
}

// bigClock renders MM:SS in an oversized block font so the countdown reads
// from across the room.
func bigClock(totalSeconds int) string {
	s := timer.FormatClock(totalSeconds)
	var rows [3]string
	for _, r := range s {
		glyph, ok := clockGlyphs[r]
		if !ok {
			glyph = clockGlyphs[' ']
		}
		for i := 0; i < 3; i++ {
			rows[i] += glyph[i] + " "
		}
	}
	return strings.Join(rows[:], "\n")
}

var clockGlyphs = map[rune][3]string{
	'0': {"█▀█", "█ █", "█▄█"},
	'1': {" █ ", " █ ", " █ "},
	'2': {"▀▀█", "█▀▀", "█▄▄"},
	'3': {"▀▀█", "▀▀█", "▄▄█"},
	'4': {"█ █", "▀▀█", "  █"},
	'5': {"█▀▀", "▀▀█", "▄▄█"},
	'6': {"█▀▀", "█▀█", "█▄█"},
	'7': {"▀▀█", "  █", "  █"},
	'8': {"█▀█", "█▀█", "█▄█"},
	'9': {"█▀█", "▀▀█", "▄▄█"},
	':': {"   ", " ▀ ", " ▄ "},
	' ': {"   ", "   ", "   "},
}

func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
