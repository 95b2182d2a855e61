// Package stats derives aggregate metrics from a user's focus session
// history. Everything here is pure arithmetic over the slice it is handed;
// fetching the sessions is the caller's job.
package stats

import (
	"math"
	"time"

	"github.com/selahfocus/selah/internal/backend"
)

// Trend is the direction of a period compared to the one before it.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// maxStreakDays bounds the backward scan so a pathological history cannot
// loop forever. Streaks longer than this are truncated.
const maxStreakDays = 100

// Stats is an ephemeral report computed fresh from the full session set.
// It is never persisted.
type Stats struct {
	TotalMinutes  int
	TotalSessions int
	TodayMinutes  int
	TodaySessions int
	WeekMinutes   int
	WeekSessions  int

	AverageSessionLength int
	LongestSession       int
	CurrentStreak        int

	TodayTrend Trend
	WeekTrend  Trend
}

// Compute builds a report from sessions as of now. Calendar boundaries
// (today, yesterday, streak days) use now's location; the week windows are
// rolling 7-day spans. The input may arrive in any order.
func Compute(sessions []backend.FocusSession, now time.Time) Stats {
	loc := now.Location()
	todayStart := startOfDay(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := now.Add(-7 * 24 * time.Hour)
	lastWeekStart := now.Add(-14 * 24 * time.Hour)

	var s Stats
	var yesterdayMinutes, lastWeekMinutes int

	for _, sess := range sessions {
		done := sess.CompletedAt.In(loc)

		s.TotalMinutes += sess.DurationMinutes
		s.TotalSessions++
		if sess.DurationMinutes > s.LongestSession {
			s.LongestSession = sess.DurationMinutes
		}

		if !done.Before(todayStart) {
			s.TodayMinutes += sess.DurationMinutes
			s.TodaySessions++
		} else if !done.Before(yesterdayStart) && done.Before(todayStart) {
			yesterdayMinutes += sess.DurationMinutes
		}

		if !done.Before(weekStart) {
			s.WeekMinutes += sess.DurationMinutes
			s.WeekSessions++
		} else if !done.Before(lastWeekStart) && done.Before(weekStart) {
			lastWeekMinutes += sess.DurationMinutes
		}
	}

	if s.TotalSessions > 0 {
		s.AverageSessionLength = int(math.Round(float64(s.TotalMinutes) / float64(s.TotalSessions)))
	}

	s.CurrentStreak = streak(sessions, now)
	s.TodayTrend = trend(s.TodayMinutes, yesterdayMinutes)
	s.WeekTrend = trend(s.WeekMinutes, lastWeekMinutes)
	return s
}

// trend compares two adjacent periods with strict inequality; ties are
// neutral.
func trend(current, previous int) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendNeutral
	}
}

type calendarDay struct {
	year  int
	month time.Month
	day   int
}

// streak counts consecutive calendar days ending today that each have at
// least one session. Days are identified by their local date triple, not a
// rolling 24-hour window: two sessions 20 hours apart can land on one day
// or two depending on the clock.
func streak(sessions []backend.FocusSession, now time.Time) int {
	if len(sessions) == 0 {
		return 0
	}

	loc := now.Location()
	have := make(map[calendarDay]bool, len(sessions))
	for _, sess := range sessions {
		done := sess.CompletedAt.In(loc)
		y, m, d := done.Date()
		have[calendarDay{y, m, d}] = true
	}

	count := 0
	cursor := now
	for i := 0; i < maxStreakDays; i++ {
		y, m, d := cursor.Date()
		if !have[calendarDay{y, m, d}] {
			break
		}
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
