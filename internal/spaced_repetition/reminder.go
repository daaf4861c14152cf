package spaced_repetition

import (
	"time"

	"github.com/example/livedict/pkg/models"
)

// Reminder decides whether a translation should be asked again.
//
// Each translation climbs promotion levels as the user answers it correctly.
// To complete a level the required number of consecutive correct answers has
// to be collected within the level's promotion period. Once a level is
// completed the translation rests until that period, counted from the first
// answer of the completing group, has elapsed. A single incorrect answer drops
// the translation back to level 0 and everything before it is ignored.
//
// The level is never stored: it is re-derived from the answer history on every
// check, which costs O(len(history)).
type Reminder struct {
	// Correct answers needed to leave level 0 for a translation never answered incorrectly
	FreshRequiredCount int
	// Correct answers needed to leave level 0 after any incorrect answer
	RelearnRequiredCount int
	// Correct answers needed per level, starting at level 1; the last value repeats
	RequiredCounts []int
	// Promotion period in hours per level, starting at level 0; the last value repeats
	PromotionHours []int
}

// NewReminder creates a Reminder with the default promotion schedule
func NewReminder() *Reminder {
	return &Reminder{
		FreshRequiredCount:   2,
		RelearnRequiredCount: 3,
		RequiredCounts:       []int{2, 1},                                 // level 1, then level 2 and above
		PromotionHours:       []int{4, 20, 24, 48, 96, 192, 384, 32 * 24}, // level 7 and above use 768h
	}
}

// Promotion describes the level derived from an answer history
type Promotion struct {
	// Level is the first level not yet completed
	Level int
	// Promoted is false when no level was ever completed since the last failure
	Promoted bool
	// PeriodStart is the first answer of the group that completed Level-1
	PeriodStart time.Time
	// Period is the promotion period of level Level-1
	Period time.Duration
}

// RestrictedUntil returns the instant the translation may be asked again.
// The zero time means it is not restricted at all.
func (p Promotion) RestrictedUntil() time.Time {
	if !p.Promoted {
		return time.Time{}
	}
	return p.PeriodStart.Add(p.Period)
}

// RestrictedAt reports whether the promotion period is still running at now
func (p Promotion) RestrictedAt(now time.Time) bool {
	if !p.Promoted {
		return false
	}
	return wholeHoursBetween(p.PeriodStart, now) < int64(p.Period/time.Hour)
}

// ShouldBeReminded reports whether a translation with the given history may be
// asked at now. An empty history is always remindable.
func (r *Reminder) ShouldBeReminded(history []models.AnswerRecord, now time.Time) bool {
	return !r.Evaluate(history).RestrictedAt(now)
}

// Evaluate walks the history after the last incorrect answer level by level
func (r *Reminder) Evaluate(history []models.AnswerRecord) Promotion {
	tail, failed := successAfterLastFailure(history)

	var promotion Promotion
	consumed := 0
	for level := 0; consumed < len(tail); level++ {
		count := r.requiredCount(level, failed)
		hours := r.promotionHours(level)
		start, ok := findGroupWithinPeriod(tail[consumed:], count, hours)
		if !ok {
			break
		}
		group := tail[consumed+start : consumed+start+count]
		promotion = Promotion{
			Level:       level + 1,
			Promoted:    true,
			PeriodStart: group[0].At,
			Period:      time.Duration(hours) * time.Hour,
		}
		consumed += start + count
	}
	return promotion
}

// RequiredCount returns how many correct answers complete the level
func (r *Reminder) RequiredCount(level int, failed bool) int {
	return r.requiredCount(level, failed)
}

// PromotionPeriod returns the promotion period of the level
func (r *Reminder) PromotionPeriod(level int) time.Duration {
	return time.Duration(r.promotionHours(level)) * time.Hour
}

func (r *Reminder) requiredCount(level int, failed bool) int {
	if level <= 0 {
		if failed {
			return r.RelearnRequiredCount
		}
		return r.FreshRequiredCount
	}
	return plateau(r.RequiredCounts, level-1)
}

func (r *Reminder) promotionHours(level int) int {
	if level < 0 {
		level = 0
	}
	return plateau(r.PromotionHours, level)
}

// plateau returns values[i], or the last value once i runs past the end
func plateau(values []int, i int) int {
	if i >= len(values) {
		return values[len(values)-1]
	}
	return values[i]
}

// successAfterLastFailure returns the answers after the most recent incorrect
// one and whether any incorrect answer exists at all
func successAfterLastFailure(history []models.AnswerRecord) ([]models.AnswerRecord, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Outcome == models.Incorrect {
			return history[i+1:], true
		}
	}
	return history, false
}

// findGroupWithinPeriod searches for the first run of count consecutive
// answers spanning less than hours whole hours. It returns the run's offset.
func findGroupWithinPeriod(answers []models.AnswerRecord, count, hours int) (int, bool) {
	if count <= 0 {
		return 0, false
	}
	for end := count - 1; end < len(answers); end++ {
		start := end - count + 1
		if wholeHoursBetween(answers[start].At, answers[end].At) < int64(hours) {
			return start, true
		}
	}
	return 0, false
}

// wholeHoursBetween truncates towards zero, so 3h59m counts as 3 hours
func wholeHoursBetween(from, to time.Time) int64 {
	return int64(to.Sub(from) / time.Hour)
}
