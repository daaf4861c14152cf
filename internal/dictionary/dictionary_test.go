package dictionary

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/livedict/internal/clock"
	"github.com/example/livedict/internal/spaced_repetition"
	"github.com/example/livedict/pkg/models"
)

var t0 = time.Date(2015, time.January, 1, 12, 0, 0, 0, time.UTC)

func newTestDictionary(t *testing.T, store *memoryStore, c clock.Clock, opts ...Option) *Dictionary {
	t.Helper()
	strategy := spaced_repetition.NewPreferNewestStrategy(c, spaced_repetition.NewReminder(), rand.New(rand.NewSource(1)))
	d, err := New(context.Background(), store.stores(), c, strategy, opts...)
	require.NoError(t, err)
	return d
}

func mustInsert(t *testing.T, d *Dictionary, foreign, native string) models.Translation {
	t.Helper()
	ok, err := d.Insert(context.Background(), models.NewTranslation(foreign, native))
	require.NoError(t, err)
	require.True(t, ok)
	for _, tr := range d.Translations() {
		if tr.ForeignWord == foreign && tr.NativeWord == native {
			return tr
		}
	}
	t.Fatalf("translation %s - %s not loaded", foreign, native)
	return models.Translation{}
}

func TestNew_RequiresStores(t *testing.T) {
	_, err := New(context.Background(), Stores{}, clock.NewManual(t0), spaced_repetition.NewSequentialStrategy())
	assert.Error(t, err)
}

func TestGetRandomTranslation_EmptyPool(t *testing.T) {
	d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0))

	_, err := d.GetRandomTranslation()
	assert.True(t, errors.Is(err, ErrPoolExhausted))
}

func TestMutationRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0))

	inserted := mustInsert(t, d, "rojo", "red")

	got, err := d.GetRandomTranslation()
	require.NoError(t, err)
	assert.Equal(t, inserted.ID, got.ID)
	assert.True(t, got.Equal(models.NewTranslation("rojo", "red")))

	got.NativeWord = "scarlet"
	existed, err := d.Update(ctx, got)
	require.NoError(t, err)
	assert.True(t, existed)

	got, err = d.GetRandomTranslation()
	require.NoError(t, err)
	assert.Equal(t, "scarlet", got.NativeWord)

	require.NoError(t, d.Delete(ctx, got))
	_, err = d.GetRandomTranslation()
	assert.True(t, errors.Is(err, ErrPoolExhausted))
}

func TestInsert_Duplicate(t *testing.T) {
	d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0))
	mustInsert(t, d, "verde", "green")

	ok, err := d.Insert(context.Background(), models.NewTranslation("verde", "green"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, d.Translations(), 1)
}

func TestInsertAll(t *testing.T) {
	d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0))

	err := d.InsertAll(context.Background(), []models.Translation{
		models.NewTranslation("gris", "grey"),
		models.NewTranslation("azul", "blue"),
	})
	require.NoError(t, err)
	assert.Len(t, d.Translations(), 2)
}

func TestMark(t *testing.T) {
	ctx := context.Background()

	t.Run("unpersisted translation is rejected", func(t *testing.T) {
		store := newMemoryStore()
		d := newTestDictionary(t, store, clock.NewManual(t0))
		loads := store.getAllHit

		ok, err := d.Mark(ctx, models.NewTranslation("rosa", "pink"), models.Correct)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, loads, store.getAllHit)
	})

	t.Run("unknown id is rejected", func(t *testing.T) {
		store := newMemoryStore()
		d := newTestDictionary(t, store, clock.NewManual(t0))
		ghost := models.NewTranslation("rosa", "pink")
		ghost.ID = 42

		ok, err := d.Mark(ctx, ghost, models.Correct)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("storage failure is returned without reload", func(t *testing.T) {
		store := newMemoryStore()
		d := newTestDictionary(t, store, clock.NewManual(t0))
		tr := mustInsert(t, d, "negro", "black")
		store.failLog = errors.New("disk full")
		loads := store.getAllHit

		ok, err := d.Mark(ctx, tr, models.Correct)
		assert.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, loads, store.getAllHit)
	})

	t.Run("answer is logged at the current time", func(t *testing.T) {
		store := newMemoryStore()
		c := clock.NewManual(t0)
		d := newTestDictionary(t, store, c)
		tr := mustInsert(t, d, "blanco", "white")
		c.Advance(time.Minute)

		ok, err := d.Mark(ctx, tr, models.Incorrect)
		require.NoError(t, err)
		require.True(t, ok)

		loaded := d.Translations()
		require.Len(t, loaded, 1)
		assert.Equal(t, []models.AnswerRecord{models.NewAnswer(models.Incorrect, t0.Add(time.Minute))}, loaded[0].Metadata.Answers)
	})

	t.Run("invalid outcome", func(t *testing.T) {
		d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0))
		tr := mustInsert(t, d, "dorado", "gold")

		_, err := d.Mark(ctx, tr, models.Outcome(7))
		assert.True(t, errors.Is(err, models.ErrInvalidOutcome))
	})
}

func TestMark_PromotionRestsTranslation(t *testing.T) {
	ctx := context.Background()
	c := clock.NewManual(t0)
	d := newTestDictionary(t, newMemoryStore(), c)
	tr := mustInsert(t, d, "naranja", "orange")

	for i := 0; i < 2; i++ {
		ok, err := d.Mark(ctx, tr, models.Correct)
		require.NoError(t, err)
		require.True(t, ok)
		c.Advance(time.Minute)
	}

	_, err := d.GetRandomTranslation()
	assert.True(t, errors.Is(err, ErrPoolExhausted))

	c.Set(t0.Add(4 * time.Hour))
	require.NoError(t, d.ReloadData(ctx))

	got, err := d.GetRandomTranslation()
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("unpersisted translation is rejected", func(t *testing.T) {
		d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0))

		ok, err := d.Update(ctx, models.NewTranslation("beige", "beige"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown id", func(t *testing.T) {
		d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0))
		ghost := models.NewTranslation("beige", "beige")
		ghost.ID = 9

		ok, err := d.Update(ctx, ghost)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("collision merges into existing translation", func(t *testing.T) {
		store := newMemoryStore()
		d := newTestDictionary(t, store, clock.NewManual(t0))
		existing := mustInsert(t, d, "azul", "blue")
		other := mustInsert(t, d, "azul", "navy")

		other.NativeWord = "blue"
		ok, err := d.Update(ctx, other)
		require.NoError(t, err)
		assert.True(t, ok)

		loaded := d.Translations()
		require.Len(t, loaded, 1)
		assert.Equal(t, existing.ID, loaded[0].ID)
	})
}

func TestReloadData_ExcludesLabels(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	d := newTestDictionary(t, store, clock.NewManual(t0))
	red := mustInsert(t, d, "rojo", "red")
	mustInsert(t, d, "amarillo", "yellow")

	ok, err := d.AddLabel(ctx, red, models.LabelA)
	require.NoError(t, err)
	require.True(t, ok)

	loaded := d.Translations()
	require.Len(t, loaded, 1)
	assert.Equal(t, "amarillo", loaded[0].ForeignWord)

	s := d.Summary()
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Excluded)

	t.Run("label not excluded is attached", func(t *testing.T) {
		d := newTestDictionary(t, store, clock.NewManual(t0), WithExcludedLabels(models.LabelB))
		loaded := d.Translations()
		require.Len(t, loaded, 2)
		assert.Equal(t, []models.Label{models.LabelA}, loaded[0].Metadata.Labels)
	})
}

func TestReloadData_SortsAnswers(t *testing.T) {
	store := newMemoryStore()
	d := newTestDictionary(t, store, clock.NewManual(t0))
	tr := mustInsert(t, d, "fucsia", "fuchsia")
	store.answers[tr.ID] = []models.AnswerRecord{
		models.NewAnswer(models.Correct, t0.Add(time.Hour)),
		models.NewAnswer(models.Incorrect, t0),
	}

	require.NoError(t, d.ReloadData(context.Background()))

	answers := d.Translations()[0].Metadata.Answers
	require.Len(t, answers, 2)
	assert.Equal(t, models.Incorrect, answers[0].Outcome)
	assert.Equal(t, models.Correct, answers[1].Outcome)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	c := clock.NewManual(t0)
	d := newTestDictionary(t, newMemoryStore(), c)
	easy := mustInsert(t, d, "plateado", "silver")
	hard := mustInsert(t, d, "marrón", "brown")
	mustInsert(t, d, "morado", "purple")

	for _, o := range []models.Outcome{models.Correct, models.Correct} {
		_, err := d.Mark(ctx, easy, o)
		require.NoError(t, err)
	}
	_, err := d.Mark(ctx, hard, models.Incorrect)
	require.NoError(t, err)

	s := d.Summary()
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 0, s.Excluded)
	assert.Equal(t, 1, s.Difficult)
	assert.Equal(t, 2, s.Eligible)
	assert.Equal(t, 1, s.Resting)
	assert.Equal(t, t0.Add(4*time.Hour), s.NextUnlock)
	assert.True(t, s.HasDue())

	c.Advance(4 * time.Hour)
	s = d.Summary()
	assert.Equal(t, 3, s.Eligible)
	assert.True(t, s.NextUnlock.IsZero())
}

func TestLabels(t *testing.T) {
	ctx := context.Background()
	d := newTestDictionary(t, newMemoryStore(), clock.NewManual(t0), WithExcludedLabels())
	tr := mustInsert(t, d, "gris", "grey")

	ok, err := d.AddLabel(ctx, tr, models.LabelC)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.AddLabel(ctx, tr, models.LabelC)
	require.NoError(t, err, "adding a label twice is ignored")
	assert.True(t, ok)

	labelled, err := d.Labelled(ctx, models.LabelC)
	require.NoError(t, err)
	require.Len(t, labelled, 1)
	assert.Equal(t, tr.ID, labelled[0].ID)

	ok, err = d.RemoveLabel(ctx, tr, models.LabelC)
	require.NoError(t, err)
	assert.True(t, ok)

	labelled, err = d.Labelled(ctx, models.LabelC)
	require.NoError(t, err)
	assert.Empty(t, labelled)

	ok, err = d.AddLabel(ctx, models.NewTranslation("x", "y"), models.LabelC)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.AddLabel(ctx, tr, models.Label(9))
	assert.True(t, errors.Is(err, models.ErrInvalidLabel))
}

func TestLabels_NoLabelStore(t *testing.T) {
	store := newMemoryStore()
	d, err := New(context.Background(), Stores{Items: store, Answers: store}, clock.NewManual(t0), spaced_repetition.NewSequentialStrategy())
	require.NoError(t, err)

	_, err = d.Labelled(context.Background(), models.LabelA)
	assert.True(t, errors.Is(err, ErrNoLabelStore))
}
