package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/livedict/pkg/models"
)

var t0 = time.Date(2015, time.January, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return t0.Add(d)
}

func correctAt(d time.Duration) models.AnswerRecord {
	return models.NewAnswer(models.Correct, at(d))
}

func incorrectAt(d time.Duration) models.AnswerRecord {
	return models.NewAnswer(models.Incorrect, at(d))
}

func TestShouldBeReminded_EmptyHistory(t *testing.T) {
	r := NewReminder()

	for _, now := range []time.Time{t0, at(-48 * time.Hour), at(time.Hour), at(10000 * time.Hour)} {
		assert.True(t, r.ShouldBeReminded(nil, now), "now=%s", now)
		assert.True(t, r.ShouldBeReminded([]models.AnswerRecord{}, now), "now=%s", now)
	}
}

func TestShouldBeReminded_SingleFailureResets(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{
		correctAt(0), correctAt(time.Hour),
		correctAt(10 * time.Hour), correctAt(11 * time.Hour),
		correctAt(40 * time.Hour),
	}
	assert.False(t, r.ShouldBeReminded(history, at(41*time.Hour)))

	history = append(history, incorrectAt(41*time.Hour))

	assert.True(t, r.ShouldBeReminded(history, at(41*time.Hour)))
	assert.False(t, r.Evaluate(history).Promoted)
}

func TestShouldBeReminded_FreshTranslationLevelZero(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{correctAt(0), correctAt(time.Hour)}

	t.Run("single correct answer does not restrict", func(t *testing.T) {
		assert.True(t, r.ShouldBeReminded(history[:1], at(time.Minute)))
	})

	t.Run("restricted before promotion period elapses", func(t *testing.T) {
		assert.False(t, r.ShouldBeReminded(history, at(time.Hour)))
		assert.False(t, r.ShouldBeReminded(history, at(3*time.Hour+59*time.Minute)))
	})

	t.Run("remindable once promotion period elapsed", func(t *testing.T) {
		assert.True(t, r.ShouldBeReminded(history, at(4*time.Hour)))
		assert.True(t, r.ShouldBeReminded(history, at(30*time.Hour)))
	})
}

func TestShouldBeReminded_AnswersTooFarApartDoNotPromote(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{correctAt(0), correctAt(5 * time.Hour)}

	assert.True(t, r.ShouldBeReminded(history, at(5*time.Hour)))
	assert.False(t, r.Evaluate(history).Promoted)
}

func TestShouldBeReminded_PromotionPeriodSlidesOverHistory(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{correctAt(0), correctAt(10 * time.Hour), correctAt(11 * time.Hour)}

	assert.False(t, r.ShouldBeReminded(history, at(12*time.Hour)))
	assert.True(t, r.ShouldBeReminded(history, at(14*time.Hour)))
	assert.Equal(t, at(14*time.Hour), r.Evaluate(history).RestrictedUntil())
}

func TestShouldBeReminded_MistakenTranslationNeedsThreeAnswers(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{
		correctAt(0),
		incorrectAt(0),
		correctAt(time.Hour),
		correctAt(2 * time.Hour),
	}
	assert.True(t, r.ShouldBeReminded(history, at(2*time.Hour)))

	history = append(history, correctAt(3*time.Hour))

	assert.False(t, r.ShouldBeReminded(history, at(3*time.Hour)))
	assert.False(t, r.ShouldBeReminded(history, at(4*time.Hour+59*time.Minute)))
	assert.True(t, r.ShouldBeReminded(history, at(5*time.Hour)))
}

func TestShouldBeReminded_AnswerAfterRelearningMovesToLevelOne(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{
		incorrectAt(0),
		correctAt(time.Hour), correctAt(2 * time.Hour), correctAt(3 * time.Hour),
		correctAt(10 * time.Hour),
	}

	// a lone answer at level 1 does not lock the translation again
	assert.True(t, r.ShouldBeReminded(history, at(10*time.Hour)))
	assert.Equal(t, 1, r.Evaluate(history).Level)

	history = append(history, correctAt(11*time.Hour))

	assert.Equal(t, 2, r.Evaluate(history).Level)
	assert.False(t, r.ShouldBeReminded(history, at(29*time.Hour)))
	assert.True(t, r.ShouldBeReminded(history, at(30*time.Hour)))
}

func TestShouldBeReminded_LevelTwoNeedsSingleAnswer(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{
		correctAt(0), correctAt(time.Hour),
		correctAt(10 * time.Hour), correctAt(11 * time.Hour),
		correctAt(40 * time.Hour),
	}

	p := r.Evaluate(history)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 24*time.Hour, p.Period)
	assert.False(t, r.ShouldBeReminded(history, at(63*time.Hour)))
	assert.True(t, r.ShouldBeReminded(history, at(64*time.Hour)))
}

func TestEvaluate_PeriodsPlateauAtLevelSeven(t *testing.T) {
	r := NewReminder()
	history := []models.AnswerRecord{
		correctAt(0), correctAt(time.Hour),
		correctAt(10 * time.Hour), correctAt(11 * time.Hour),
	}
	expected := []time.Duration{24, 48, 96, 192, 384, 768, 768, 768}
	offset := 100 * time.Hour
	for i, hours := range expected {
		history = append(history, correctAt(offset))
		offset += 1000 * time.Hour

		p := r.Evaluate(history)
		assert.Equal(t, i+3, p.Level)
		assert.Equal(t, hours*time.Hour, p.Period, "level %d", p.Level-1)
	}
}

func TestReminder_Schedule(t *testing.T) {
	r := NewReminder()

	assert.Equal(t, 2, r.RequiredCount(0, false))
	assert.Equal(t, 3, r.RequiredCount(0, true))
	assert.Equal(t, 2, r.RequiredCount(1, true))
	assert.Equal(t, 1, r.RequiredCount(2, false))
	assert.Equal(t, 1, r.RequiredCount(12, false))

	assert.Equal(t, 4*time.Hour, r.PromotionPeriod(0))
	assert.Equal(t, 20*time.Hour, r.PromotionPeriod(1))
	assert.Equal(t, 768*time.Hour, r.PromotionPeriod(7))
	assert.Equal(t, 768*time.Hour, r.PromotionPeriod(30))
}

func TestPromotion_NotPromotedIsNeverRestricted(t *testing.T) {
	var p Promotion

	assert.True(t, p.RestrictedUntil().IsZero())
	assert.False(t, p.RestrictedAt(t0))
}
