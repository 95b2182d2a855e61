package verses

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCorpus(t *testing.T) {
	assert.Equal(t, 25, Count())

	for i, v := range All() {
		assert.NotEmpty(t, v.Text, "verse %d has no text", i)
		assert.NotEmpty(t, v.Reference, "verse %d has no reference", i)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0].Text = "tampered"
	assert.NotEqual(t, "tampered", All()[0].Text)
}

func TestRandomIsFromCorpus(t *testing.T) {
	corpus := map[string]bool{}
	for _, v := range All() {
		corpus[v.Reference] = true
	}
	for i := 0; i < 50; i++ {
		assert.True(t, corpus[Random().Reference])
	}
}

func TestRotatorAdvance(t *testing.T) {
	now := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)
	r := NewRotator(5*time.Minute, now)
	start := r.Current()

	// Before the interval elapses nothing moves.
	assert.False(t, r.Advance(now.Add(4*time.Minute)))
	assert.Equal(t, start, r.Current())

	// At the interval the verse changes.
	assert.True(t, r.Advance(now.Add(5*time.Minute)))
	assert.NotEqual(t, start, r.Current())
}

func TestRotatorWrapsAround(t *testing.T) {
	now := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)
	r := NewRotator(time.Minute, now)

	seen := map[string]bool{}
	cursor := now
	for i := 0; i < Count(); i++ {
		seen[r.Current().Reference] = true
		cursor = cursor.Add(time.Minute)
		r.Advance(cursor)
	}
	assert.Len(t, seen, Count(), "a full cycle visits every verse once")
}

func TestRotatorDefaultInterval(t *testing.T) {
	now := time.Now()
	r := NewRotator(0, now)

	assert.False(t, r.Advance(now.Add(DefaultRotation-time.Second)))
	assert.True(t, r.Advance(now.Add(DefaultRotation)))
}
