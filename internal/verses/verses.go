// Package verses holds the rotating scripture quotations shown alongside
// the timer and on the dashboard.
package verses

import (
	"math/rand"
	"time"
)

// Verse is one quotation with its reference.
type Verse struct {
	Text      string
	Reference string
}

// DefaultRotation is how long a verse stays on screen before the next one.
const DefaultRotation = 5 * time.Minute

var all = []Verse{
	{"Be still, and know that I am God.", "Psalm 46:10"},
	{"I can do all things through him who strengthens me.", "Philippians 4:13"},
	{"Trust in the Lord with all your heart, and do not lean on your own understanding.", "Proverbs 3:5"},
	{"For I know the plans I have for you, declares the Lord, plans for welfare and not for evil, to give you a future and a hope.", "Jeremiah 29:11"},
	{"But they who wait for the Lord shall renew their strength; they shall mount up with wings like eagles; they shall run and not be weary; they shall walk and not faint.", "Isaiah 40:31"},
	{"Do not be anxious about anything, but in everything by prayer and supplication with thanksgiving let your requests be made known to God.", "Philippians 4:6"},
	{"Commit your work to the Lord, and your plans will be established.", "Proverbs 16:3"},
	{"Whatever you do, work heartily, as for the Lord and not for men.", "Colossians 3:23"},
	{"The Lord will fight for you, and you have only to be silent.", "Exodus 14:14"},
	{"But seek first the kingdom of God and his righteousness, and all these things will be added to you.", "Matthew 6:33"},
	{"Cast all your anxiety on him because he cares for you.", "1 Peter 5:7"},
	{"And let us not grow weary of doing good, for in due season we will reap, if we do not give up.", "Galatians 6:9"},
	{"The Lord is my strength and my shield; in him my heart trusts, and I am helped.", "Psalm 28:7"},
	{"For God gave us a spirit not of fear but of power and love and self-control.", "2 Timothy 1:7"},
	{"In all your ways acknowledge him, and he will make straight your paths.", "Proverbs 3:6"},
	{"Come to me, all who labor and are heavy laden, and I will give you rest.", "Matthew 11:28"},
	{"The Lord is near to all who call on him, to all who call on him in truth.", "Psalm 145:18"},
	{"And we know that for those who love God all things work together for good, for those who are called according to his purpose.", "Romans 8:28"},
	{"Be strong and courageous. Do not fear or be in dread of them, for it is the Lord your God who goes with you. He will not leave you or forsake you.", "Deuteronomy 31:6"},
	{"But as for you, be strong and do not give up, for your work will be rewarded.", "2 Chronicles 15:7"},
	{"The heart of man plans his way, but the Lord establishes his steps.", "Proverbs 16:9"},
	{"Let your eyes look directly forward, and your gaze be straight before you.", "Proverbs 4:25"},
	{"Therefore, since we are surrounded by so great a cloud of witnesses, let us also lay aside every weight, and sin which clings so closely, and let us run with endurance the race that is set before us.", "Hebrews 12:1"},
	{"For the Lord God is a sun and shield; the Lord bestows favor and honor. No good thing does he withhold from those who walk uprightly.", "Psalm 84:11"},
	{"The steadfast love of the Lord never ceases; his mercies never come to an end; they are new every morning; great is your faithfulness.", "Lamentations 3:22-23"},
}

// All returns the full corpus in its canonical order.
func All() []Verse {
	out := make([]Verse, len(all))
	copy(out, all)
	return out
}

// Count reports how many verses are in the corpus.
func Count() int {
	return len(all)
}

// Random picks a verse uniformly at random.
func Random() Verse {
	return all[rand.Intn(len(all))]
}

// Rotator steps through the corpus on a fixed interval, starting from a
// random verse so launches don't all open on the same line.
type Rotator struct {
	interval time.Duration
	index    int
	lastTurn time.Time
}

// NewRotator creates a rotator that advances every interval
// (DefaultRotation when the argument is not positive).
func NewRotator(interval time.Duration, now time.Time) *Rotator {
	if interval <= 0 {
		interval = DefaultRotation
	}
	return &Rotator{
		interval: interval,
		index:    rand.Intn(len(all)),
		lastTurn: now,
	}
}

// Current returns the verse on display.
func (r *Rotator) Current() Verse {
	return all[r.index]
}

// Advance moves to the next verse when the interval has elapsed, and
// reports whether the verse changed.
func (r *Rotator) Advance(now time.Time) bool {
	if now.Sub(r.lastTurn) < r.interval {
		return false
	}
	r.index = (r.index + 1) % len(all)
	r.lastTurn = now
	return true
}
