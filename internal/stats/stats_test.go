package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/selahfocus/selah/internal/backend"
)

// fixedNow is a Wednesday afternoon, far from midnight so that day
// boundaries in the tests are unambiguous.
var fixedNow = time.Date(2025, 6, 18, 15, 0, 0, 0, time.Local)

func session(completedAt time.Time, minutes int) backend.FocusSession {
	return backend.FocusSession{
		ID:              "s",
		UserID:          "u",
		DurationMinutes: minutes,
		CompletedAt:     completedAt,
		CreatedAt:       completedAt,
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, fixedNow)

	assert.Equal(t, 0, got.TodayMinutes)
	assert.Equal(t, 0, got.WeekMinutes)
	assert.Equal(t, 0, got.TotalSessions)
	assert.Equal(t, 0, got.AverageSessionLength)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, TrendNeutral, got.TodayTrend)
	assert.Equal(t, TrendNeutral, got.WeekTrend)
}

func TestComputeTodayAndWeek(t *testing.T) {
	sessions := []backend.FocusSession{
		session(fixedNow.Add(-1*time.Hour), 25),
		session(fixedNow.Add(-2*time.Hour), 15),
		session(fixedNow.AddDate(0, 0, -2), 30),
		session(fixedNow.AddDate(0, 0, -10), 45), // outside the week window
	}

	got := Compute(sessions, fixedNow)

	assert.Equal(t, 40, got.TodayMinutes)
	assert.Equal(t, 2, got.TodaySessions)
	assert.Equal(t, 70, got.WeekMinutes)
	assert.Equal(t, 3, got.WeekSessions)
	assert.Equal(t, 4, got.TotalSessions)
	assert.Equal(t, 115, got.TotalMinutes)
	assert.Equal(t, 45, got.LongestSession)
}

func TestComputeAverageRounds(t *testing.T) {
	exact := []backend.FocusSession{
		session(fixedNow.Add(-1*time.Hour), 10),
		session(fixedNow.Add(-2*time.Hour), 20),
		session(fixedNow.Add(-3*time.Hour), 30),
	}
	assert.Equal(t, 20, Compute(exact, fixedNow).AverageSessionLength)

	// 10+25 = 35, /2 = 17.5, rounds to 18.
	half := []backend.FocusSession{
		session(fixedNow.Add(-1*time.Hour), 10),
		session(fixedNow.Add(-2*time.Hour), 25),
	}
	assert.Equal(t, 18, Compute(half, fixedNow).AverageSessionLength)
}

func TestTodayTrendDown(t *testing.T) {
	yesterday := fixedNow.AddDate(0, 0, -1)
	sessions := []backend.FocusSession{
		session(fixedNow.Add(-1*time.Hour), 30),
		session(yesterday, 45),
	}

	got := Compute(sessions, fixedNow)
	assert.Equal(t, 30, got.TodayMinutes)
	assert.Equal(t, TrendDown, got.TodayTrend)
}

func TestTrendTiesAreNeutral(t *testing.T) {
	yesterday := fixedNow.AddDate(0, 0, -1)
	sessions := []backend.FocusSession{
		session(fixedNow.Add(-1*time.Hour), 30),
		session(yesterday, 30),
	}

	got := Compute(sessions, fixedNow)
	assert.Equal(t, TrendNeutral, got.TodayTrend)
}

func TestWeekTrendUp(t *testing.T) {
	sessions := []backend.FocusSession{
		session(fixedNow.AddDate(0, 0, -2), 60),
		session(fixedNow.AddDate(0, 0, -9), 20), // lands in the prior week
	}

	got := Compute(sessions, fixedNow)
	assert.Equal(t, 60, got.WeekMinutes)
	assert.Equal(t, TrendUp, got.WeekTrend)
}

func TestStreakConsecutiveDays(t *testing.T) {
	sessions := []backend.FocusSession{
		session(fixedNow.Add(-30*time.Minute), 25),
		session(fixedNow.AddDate(0, 0, -1), 25),
		session(fixedNow.AddDate(0, 0, -2), 25),
		session(fixedNow.AddDate(0, 0, -5), 25), // gap breaks the streak
	}

	got := Compute(sessions, fixedNow)
	assert.Equal(t, 3, got.CurrentStreak)
}

func TestStreakNoSessionToday(t *testing.T) {
	sessions := []backend.FocusSession{
		session(fixedNow.AddDate(0, 0, -1), 25),
		session(fixedNow.AddDate(0, 0, -2), 25),
	}

	got := Compute(sessions, fixedNow)
	assert.Equal(t, 0, got.CurrentStreak)
}

func TestStreakCapped(t *testing.T) {
	var sessions []backend.FocusSession
	for i := 0; i < 150; i++ {
		sessions = append(sessions, session(fixedNow.AddDate(0, 0, -i), 25))
	}

	got := Compute(sessions, fixedNow)
	assert.Equal(t, maxStreakDays, got.CurrentStreak)
}

func TestComputeOrderIndependent(t *testing.T) {
	a := []backend.FocusSession{
		session(fixedNow.Add(-1*time.Hour), 25),
		session(fixedNow.AddDate(0, 0, -1), 15),
		session(fixedNow.AddDate(0, 0, -3), 40),
	}
	b := []backend.FocusSession{a[2], a[0], a[1]}

	assert.Equal(t, Compute(a, fixedNow), Compute(b, fixedNow))
}
