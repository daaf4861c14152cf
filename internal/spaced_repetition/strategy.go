package spaced_repetition

import (
	"math/rand"

	"github.com/example/livedict/internal/clock"
	"github.com/example/livedict/pkg/models"
)

const (
	// DifficultTranslationsLimit is the number of difficult translations at
	// which they are asked every time
	DifficultTranslationsLimit = 20
	// NewestTranslationsCount is the size of the "recently added" window
	NewestTranslationsCount = 100
	// NewestProbabilityPercent is how often the recent window is preferred
	NewestProbabilityPercent = 80
)

// SelectionStrategy picks the next translation to ask
type SelectionStrategy interface {
	// UpdateState rebuilds all derived state from a fresh snapshot, ordered
	// the way storage returns it (oldest first)
	UpdateState(translations []models.Translation)
	// SelectTranslation returns false when there is nothing left to ask
	SelectTranslation() (models.Translation, bool)
}

// PreferNewestStrategy asks difficult translations first and otherwise biases
// the draw towards recently added ones. Translations resting in a promotion
// period are set aside until the next UpdateState.
//
// Not safe for concurrent use.
type PreferNewestStrategy struct {
	clock    clock.Clock
	reminder *Reminder
	rng      *rand.Rand

	// arena holds the snapshot newest first; the partitions index into it
	arena     []models.Translation
	normal    []int
	difficult []int
	resting   []int
}

// NewPreferNewestStrategy creates the strategy. A nil reminder uses the
// default schedule and a nil rng is seeded from the clock.
func NewPreferNewestStrategy(c clock.Clock, reminder *Reminder, rng *rand.Rand) *PreferNewestStrategy {
	if reminder == nil {
		reminder = NewReminder()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(c.Now().UnixNano()))
	}
	return &PreferNewestStrategy{
		clock:    c,
		reminder: reminder,
		rng:      rng,
	}
}

// UpdateState partitions the snapshot into normal and difficult translations
func (s *PreferNewestStrategy) UpdateState(translations []models.Translation) {
	n := len(translations)
	s.arena = make([]models.Translation, n)
	s.normal = make([]int, 0, n)
	s.difficult = nil
	s.resting = nil

	for i, t := range translations {
		idx := n - 1 - i
		t.Metadata = t.Metadata.Clone()
		s.arena[idx] = t
	}
	for idx, t := range s.arena {
		if isLastAnswerCorrect(t.Metadata) {
			s.normal = append(s.normal, idx)
		} else {
			s.difficult = append(s.difficult, idx)
		}
	}
}

// SelectTranslation draws candidates until one is allowed by the Reminder
func (s *PreferNewestStrategy) SelectTranslation() (models.Translation, bool) {
	now := s.clock.Now()
	for len(s.normal) > 0 || len(s.difficult) > 0 {
		source, pos := s.chooseCandidate()
		idx := (*source)[pos]
		candidate := s.arena[idx]
		if s.reminder.ShouldBeReminded(candidate.Metadata.Answers, now) {
			return candidate, true
		}
		*source = removeAt(*source, pos)
		s.resting = append(s.resting, idx)
	}
	return models.Translation{}, false
}

// Len returns the size of the last snapshot
func (s *PreferNewestStrategy) Len() int {
	return len(s.arena)
}

// Resting returns how many translations were set aside since the last UpdateState
func (s *PreferNewestStrategy) Resting() int {
	return len(s.resting)
}

// chooseCandidate returns the partition to draw from and a position in it
func (s *PreferNewestStrategy) chooseCandidate() (*[]int, int) {
	if len(s.normal) == 0 ||
		len(s.difficult) > 0 && len(s.difficult) > s.rng.Intn(DifficultTranslationsLimit) {
		return &s.difficult, s.rng.Intn(len(s.difficult))
	}
	return &s.normal, s.choosePreferringNewer(len(s.normal))
}

// choosePreferringNewer draws from the newest 100 with 80% probability and
// from the older remainder otherwise
func (s *PreferNewestStrategy) choosePreferringNewer(size int) int {
	if size <= NewestTranslationsCount {
		return s.rng.Intn(size)
	}
	if s.rng.Intn(100) < NewestProbabilityPercent {
		return s.rng.Intn(NewestTranslationsCount)
	}
	return s.rng.Intn(size-NewestTranslationsCount) + NewestTranslationsCount
}

func isLastAnswerCorrect(m models.Metadata) bool {
	last, ok := m.LastAnswer()
	return !ok || last.Outcome == models.Correct
}

// removeAt deletes position i keeping the order of the rest
func removeAt(s []int, i int) []int {
	return append(s[:i], s[i+1:]...)
}

// SequentialStrategy cycles through the snapshot in order and ignores
// promotion periods. Useful to exercise orchestration without randomness.
type SequentialStrategy struct {
	translations []models.Translation
	next         int
}

// NewSequentialStrategy creates an empty SequentialStrategy
func NewSequentialStrategy() *SequentialStrategy {
	return &SequentialStrategy{}
}

// UpdateState replaces the cycle and restarts it from the first translation
func (s *SequentialStrategy) UpdateState(translations []models.Translation) {
	s.translations = append([]models.Translation(nil), translations...)
	s.next = 0
}

// SelectTranslation returns the next translation of the cycle
func (s *SequentialStrategy) SelectTranslation() (models.Translation, bool) {
	if len(s.translations) == 0 {
		return models.Translation{}, false
	}
	t := s.translations[s.next%len(s.translations)]
	s.next = (s.next + 1) % len(s.translations)
	return t, true
}

// Len returns the size of the last snapshot
func (s *SequentialStrategy) Len() int {
	return len(s.translations)
}
