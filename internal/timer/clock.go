package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrZeroDuration rejects a committed edit of 00:00.
	ErrZeroDuration = errors.New("duration must be greater than zero")
	// ErrNotEditable rejects edits while running or complete.
	ErrNotEditable = errors.New("time can only be edited while idle or paused")
	// ErrBadClock rejects input that is not a MM:SS pair.
	ErrBadClock = errors.New("expected MM:SS")
)

// FormatClock renders a second count as MM:SS. FormatClock(125) == "02:05".
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// ParseClock reads a MM:SS pair back into seconds. Minutes must be 0-99 and
// seconds 0-59; ParseClock("02:05") == 125.
func ParseClock(input string) (int, error) {
	parts := strings.Split(strings.TrimSpace(input), ":")
	if len(parts) != 2 {
		return 0, ErrBadClock
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrBadClock
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrBadClock
	}
	if minutes < 0 || minutes > 99 || seconds < 0 || seconds > 59 {
		return 0, ErrBadClock
	}
	return minutes*60 + seconds, nil
}
