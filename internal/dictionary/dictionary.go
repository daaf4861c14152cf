// Package dictionary keeps the practice pool in sync with storage and hands
// translations to the selection strategy.
package dictionary

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pkg/errors"

	"github.com/example/livedict/internal/clock"
	"github.com/example/livedict/internal/spaced_repetition"
	"github.com/example/livedict/pkg/models"
)

// DefaultExcludedLabels are left out of practice unless configured otherwise
var DefaultExcludedLabels = []models.Label{models.LabelA, models.LabelB}

// Dictionary mediates every mutation against storage and reloads the
// strategy afterwards.
//
// Not safe for concurrent use; callers sharing a Dictionary must serialize
// access themselves.
type Dictionary struct {
	items   ItemStore
	answers AnswerStore
	labels  LabelStore

	clock    clock.Clock
	strategy spaced_repetition.SelectionStrategy
	reminder *spaced_repetition.Reminder
	excluded []models.Label
	logger   *slog.Logger

	// snapshot is what the strategy was last updated with
	snapshot      []models.Translation
	excludedCount int
}

// Option configures a Dictionary
type Option func(*Dictionary)

// WithExcludedLabels replaces the default excluded labels. No labels means
// every translation is practiced.
func WithExcludedLabels(labels ...models.Label) Option {
	return func(d *Dictionary) {
		d.excluded = append([]models.Label(nil), labels...)
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dictionary) {
		d.logger = logger
	}
}

// WithReminder sets the schedule used by Summary. It should match the one
// the strategy was built with.
func WithReminder(r *spaced_repetition.Reminder) Option {
	return func(d *Dictionary) {
		d.reminder = r
	}
}

// New creates a Dictionary and performs the first reload
func New(ctx context.Context, stores Stores, c clock.Clock, strategy spaced_repetition.SelectionStrategy, opts ...Option) (*Dictionary, error) {
	if stores.Items == nil || stores.Answers == nil {
		return nil, errors.New("item and answer stores are required")
	}
	if c == nil {
		c = clock.System{}
	}
	d := &Dictionary{
		items:    stores.Items,
		answers:  stores.Answers,
		labels:   stores.Labels,
		clock:    c,
		strategy: strategy,
		excluded: DefaultExcludedLabels,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.reminder == nil {
		d.reminder = spaced_repetition.NewReminder()
	}
	if err := d.ReloadData(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// GetRandomTranslation returns the next translation to ask or ErrPoolExhausted
func (d *Dictionary) GetRandomTranslation() (models.Translation, error) {
	t, ok := d.strategy.SelectTranslation()
	if !ok {
		return models.Translation{}, ErrPoolExhausted
	}
	return t, nil
}

// Mark logs an answer for t at the current time and reloads. It returns false
// without an error when t was never persisted or is unknown to storage. A
// storage failure is returned as is and no reload happens.
func (d *Dictionary) Mark(ctx context.Context, t models.Translation, outcome models.Outcome) (bool, error) {
	if !outcome.IsValid() {
		return false, errors.Wrapf(models.ErrInvalidOutcome, "outcome %d", int(outcome))
	}
	if !t.IsPersisted() {
		return false, nil
	}
	logged, err := d.answers.LogAnswer(ctx, t.ID, outcome, d.clock.Now())
	if err != nil {
		return false, errors.Wrapf(err, "failed to log answer for translation %d", t.ID)
	}
	if !logged {
		d.logger.Warn("answer for unknown translation", "translation_id", t.ID)
		return false, nil
	}
	if err := d.ReloadData(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Insert stores a new translation. It returns false when the pair exists.
func (d *Dictionary) Insert(ctx context.Context, t models.Translation) (bool, error) {
	inserted, err := d.items.InsertSingle(ctx, t)
	if err != nil {
		return false, errors.Wrap(err, "failed to insert translation")
	}
	if !inserted {
		return false, nil
	}
	return true, d.ReloadData(ctx)
}

// InsertAll stores translations in bulk
func (d *Dictionary) InsertAll(ctx context.Context, translations []models.Translation) error {
	if len(translations) == 0 {
		return nil
	}
	if err := d.items.Insert(ctx, translations); err != nil {
		return errors.Wrap(err, "failed to insert translations")
	}
	return d.ReloadData(ctx)
}

// Update changes the words of a persisted translation. When the new pair
// collides with another translation the updated one is deleted, merging it
// into the existing record. It returns whether a translation with t.ID existed.
func (d *Dictionary) Update(ctx context.Context, t models.Translation) (bool, error) {
	if !t.IsPersisted() {
		return false, nil
	}
	n, err := d.items.Update(ctx, t)
	switch {
	case errors.Is(err, models.ErrDuplicate):
		d.logger.Info("translation merged into existing pair", "translation_id", t.ID, "pair", t.String())
		if err := d.items.Delete(ctx, []models.Translation{t}); err != nil {
			return false, errors.Wrap(err, "failed to delete merged translation")
		}
		n = 1
	case err != nil:
		return false, errors.Wrapf(err, "failed to update translation %d", t.ID)
	}
	if err := d.ReloadData(ctx); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes t with its answers and labels
func (d *Dictionary) Delete(ctx context.Context, t models.Translation) error {
	if err := d.items.Delete(ctx, []models.Translation{t}); err != nil {
		return errors.Wrapf(err, "failed to delete translation %d", t.ID)
	}
	return d.ReloadData(ctx)
}

// ReloadData fetches everything from storage, drops excluded translations and
// hands the rest to the strategy
func (d *Dictionary) ReloadData(ctx context.Context) error {
	all, err := d.load(ctx)
	if err != nil {
		return err
	}

	practiced := make([]models.Translation, 0, len(all))
	for _, t := range all {
		if d.isExcluded(t.Metadata) {
			continue
		}
		practiced = append(practiced, t)
	}

	d.snapshot = practiced
	d.excludedCount = len(all) - len(practiced)
	d.strategy.UpdateState(practiced)

	d.logger.Debug("dictionary reloaded", "translations", len(all), "excluded", d.excludedCount)
	return nil
}

// Translations returns a copy of the translations currently in practice
func (d *Dictionary) Translations() []models.Translation {
	out := make([]models.Translation, len(d.snapshot))
	for i, t := range d.snapshot {
		t.Metadata = t.Metadata.Clone()
		out[i] = t
	}
	return out
}

// All returns every stored translation with its metadata, excluded ones included
func (d *Dictionary) All(ctx context.Context) ([]models.Translation, error) {
	return d.load(ctx)
}

// load returns every translation with its answers and labels attached
func (d *Dictionary) load(ctx context.Context) ([]models.Translation, error) {
	translations, err := d.items.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get translations")
	}
	answers, err := d.answers.GetAnswersByTranslationID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get answers")
	}
	labels, err := d.labelsByTranslationID(ctx)
	if err != nil {
		return nil, err
	}

	for i := range translations {
		t := &translations[i]
		history := append([]models.AnswerRecord(nil), answers[t.ID]...)
		sort.SliceStable(history, func(a, b int) bool {
			return history[a].At.Before(history[b].At)
		})
		t.Metadata = models.Metadata{
			Answers: history,
			Labels:  labels[t.ID],
		}
	}
	return translations, nil
}

func (d *Dictionary) labelsByTranslationID(ctx context.Context) (map[int64][]models.Label, error) {
	out := make(map[int64][]models.Label)
	if d.labels == nil {
		return out, nil
	}
	for _, label := range models.AllLabels {
		ids, err := d.labels.GetTranslationIDsWithLabel(ctx, label)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get translations labelled %s", label)
		}
		for id := range ids {
			out[id] = append(out[id], label)
		}
	}
	return out, nil
}

func (d *Dictionary) isExcluded(m models.Metadata) bool {
	for _, label := range d.excluded {
		if m.HasLabel(label) {
			return true
		}
	}
	return false
}
