// Package timer implements the drift-correcting countdown behind the timer
// view. Remaining time is always recomputed from the wall clock and the
// instant the current running segment began, never by decrementing on each
// tick, so a suspended process or a late tick does not lose time.
package timer

import (
	"math"
	"time"
)

// State is the countdown's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// DefaultMinutes is the countdown length used when none is configured.
const DefaultMinutes = 25

// Countdown is a single-owner state machine; all calls must come from one
// goroutine (the TUI's update loop).
type Countdown struct {
	now func() time.Time

	state     State
	baseline  time.Duration // the duration the current/most-recent run started from
	remaining time.Duration

	// Wall-clock reference for the current running segment.
	segStart time.Time
	segBase  time.Duration

	onComplete func(minutes int)
	fired      bool
}

// New creates an idle countdown of initialMinutes (DefaultMinutes when the
// argument is not positive).
func New(initialMinutes int) *Countdown {
	if initialMinutes <= 0 {
		initialMinutes = DefaultMinutes
	}
	d := time.Duration(initialMinutes) * time.Minute
	return &Countdown{
		now:       time.Now,
		state:     StateIdle,
		baseline:  d,
		remaining: d,
	}
}

// SetOnComplete registers the completion callback. It fires exactly once
// per run, with the run's declared length in whole minutes (rounded up),
// not the literal elapsed wall-clock time.
func (c *Countdown) SetOnComplete(fn func(minutes int)) {
	c.onComplete = fn
}

func (c *Countdown) State() State            { return c.state }
func (c *Countdown) Remaining() time.Duration { return c.remaining }
func (c *Countdown) Baseline() time.Duration  { return c.baseline }

// Start begins or resumes the countdown.
//
//	idle     -> running, capturing the displayed value as the new baseline
//	paused   -> running, baseline untouched
//	complete -> running, a fresh run from the previous declared duration
func (c *Countdown) Start() {
	switch c.state {
	case StateRunning:
		return
	case StateIdle:
		if c.remaining <= 0 {
			return
		}
		c.baseline = c.remaining
	case StatePaused:
		// Resume. The baseline stays what this run was declared as.
	case StateComplete:
		c.remaining = c.baseline
		if c.remaining <= 0 {
			return
		}
	}
	c.state = StateRunning
	c.fired = false
	c.segStart = c.now()
	c.segBase = c.remaining
}

// Pause freezes the remaining time at its current wall-clock-derived value.
func (c *Countdown) Pause() {
	if c.state != StateRunning {
		return
	}
	c.remaining = c.computeRemaining()
	if c.remaining <= 0 {
		c.complete()
		return
	}
	c.state = StatePaused
}

// Toggle starts when stopped or paused and pauses when running.
func (c *Countdown) Toggle() {
	if c.state == StateRunning {
		c.Pause()
	} else {
		c.Start()
	}
}

// Reset returns to idle with the baseline duration on display, discarding
// any in-progress timing reference.
func (c *Countdown) Reset() {
	c.state = StateIdle
	c.fired = false
	c.segStart = time.Time{}
	if c.baseline > 0 {
		c.remaining = c.baseline
	} else {
		c.remaining = DefaultMinutes * time.Minute
	}
}

// Tick recomputes the remaining time from the wall clock and completes the
// run when it reaches zero. Callers invoke it on every scheduler tick; the
// cadence does not affect accuracy.
func (c *Countdown) Tick() {
	if c.state != StateRunning {
		return
	}
	c.remaining = c.computeRemaining()
	if c.remaining <= 0 {
		c.complete()
	}
}

func (c *Countdown) computeRemaining() time.Duration {
	elapsed := c.now().Sub(c.segStart)
	rem := c.segBase - elapsed
	if rem < 0 {
		return 0
	}
	return rem
}

func (c *Countdown) complete() {
	c.remaining = 0
	c.state = StateComplete
	if c.fired {
		return
	}
	c.fired = true
	if c.onComplete != nil {
		c.onComplete(completedMinutes(c.baseline))
	}
}

// completedMinutes reports the run's declared length, rounded up to whole
// minutes so that e.g. a 90-second run counts as 2 minutes, never 0.
func completedMinutes(baseline time.Duration) int {
	return int(math.Ceil(baseline.Seconds() / 60))
}

// SetDuration commits a manual edit while idle or paused. Out-of-range
// parts are clamped (minutes 0-99, seconds 0-59); a zero total is rejected
// and the previous value stands. A valid edit redefines the baseline.
func (c *Countdown) SetDuration(minutes, seconds int) error {
	if c.state == StateRunning || c.state == StateComplete {
		return ErrNotEditable
	}
	minutes, seconds = clampClock(minutes, seconds)
	total := time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second
	if total == 0 {
		return ErrZeroDuration
	}
	c.remaining = total
	c.baseline = total
	return nil
}

func clampClock(minutes, seconds int) (int, int) {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 99 {
		minutes = 99
	}
	if seconds < 0 {
		seconds = 0
	}
	if seconds > 59 {
		seconds = 59
	}
	return minutes, seconds
}
