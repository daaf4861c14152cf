package dictionary

import (
	"time"

	"github.com/example/livedict/pkg/models"
)

// Summary describes the practice pool at a given instant
type Summary struct {
	// Total counts every stored translation, excluded ones included
	Total    int
	Excluded int
	// Difficult translations were last answered incorrectly
	Difficult int
	// Eligible translations may be asked now
	Eligible int
	// Resting translations are inside a promotion period
	Resting int
	// NextUnlock is when the first resting translation becomes eligible again.
	// Zero when nothing is resting.
	NextUnlock time.Time
	At         time.Time
}

// HasDue reports whether anything can be asked right now
func (s Summary) HasDue() bool {
	return s.Eligible > 0
}

// Summary evaluates the last loaded snapshot at the current time
func (d *Dictionary) Summary() Summary {
	now := d.clock.Now()
	s := Summary{
		Total:    len(d.snapshot) + d.excludedCount,
		Excluded: d.excludedCount,
		At:       now,
	}
	for _, t := range d.snapshot {
		if last, ok := t.Metadata.LastAnswer(); ok && last.Outcome == models.Incorrect {
			s.Difficult++
		}
		p := d.reminder.Evaluate(t.Metadata.Answers)
		if !p.RestrictedAt(now) {
			s.Eligible++
			continue
		}
		s.Resting++
		if until := p.RestrictedUntil(); s.NextUnlock.IsZero() || until.Before(s.NextUnlock) {
			s.NextUnlock = until
		}
	}
	return s
}
