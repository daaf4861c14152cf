package dictionary

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// memoryStore implements every store interface over plain maps
type memoryStore struct {
	nextID       int64
	translations []models.Translation
	answers      map[int64][]models.AnswerRecord
	labels       map[models.Label]map[int64]struct{}

	// failLog makes LogAnswer fail
	failLog   error
	getAllHit int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		answers: make(map[int64][]models.AnswerRecord),
		labels:  make(map[models.Label]map[int64]struct{}),
	}
}

func (m *memoryStore) stores() Stores {
	return Stores{Items: m, Answers: m, Labels: m}
}

func (m *memoryStore) find(id int64) int {
	for i, t := range m.translations {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *memoryStore) exists(key models.TranslationKey, except int64) bool {
	for _, t := range m.translations {
		if t.Key() == key && t.ID != except {
			return true
		}
	}
	return false
}

func (m *memoryStore) Insert(ctx context.Context, translations []models.Translation) error {
	for _, t := range translations {
		if _, err := m.InsertSingle(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryStore) InsertSingle(_ context.Context, t models.Translation) (bool, error) {
	if m.exists(t.Key(), 0) {
		return false, nil
	}
	m.nextID++
	m.translations = append(m.translations, models.Translation{
		ID:          m.nextID,
		ForeignWord: t.ForeignWord,
		NativeWord:  t.NativeWord,
	})
	return true, nil
}

func (m *memoryStore) Update(_ context.Context, t models.Translation) (int64, error) {
	i := m.find(t.ID)
	if i < 0 {
		return 0, nil
	}
	if m.exists(t.Key(), t.ID) {
		return 0, errors.WithStack(models.ErrDuplicate)
	}
	m.translations[i].ForeignWord = t.ForeignWord
	m.translations[i].NativeWord = t.NativeWord
	return 1, nil
}

func (m *memoryStore) Delete(_ context.Context, translations []models.Translation) error {
	for _, t := range translations {
		if i := m.find(t.ID); i >= 0 {
			m.translations = append(m.translations[:i], m.translations[i+1:]...)
		}
		delete(m.answers, t.ID)
		for _, ids := range m.labels {
			delete(ids, t.ID)
		}
	}
	return nil
}

func (m *memoryStore) GetAll(context.Context) ([]models.Translation, error) {
	m.getAllHit++
	return append([]models.Translation(nil), m.translations...), nil
}

func (m *memoryStore) LogAnswer(_ context.Context, id int64, outcome models.Outcome, at time.Time) (bool, error) {
	if m.failLog != nil {
		return false, m.failLog
	}
	if m.find(id) < 0 {
		return false, nil
	}
	m.answers[id] = append(m.answers[id], models.NewAnswer(outcome, at))
	return true, nil
}

func (m *memoryStore) GetAnswersByTranslationID(context.Context) (map[int64][]models.AnswerRecord, error) {
	out := make(map[int64][]models.AnswerRecord, len(m.answers))
	for id, answers := range m.answers {
		out[id] = append([]models.AnswerRecord(nil), answers...)
	}
	return out, nil
}

func (m *memoryStore) GetTranslationIDsWithLabel(_ context.Context, label models.Label) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	for id := range m.labels[label] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *memoryStore) AddLabel(_ context.Context, id int64, label models.Label) error {
	ids, ok := m.labels[label]
	if !ok {
		ids = make(map[int64]struct{})
		m.labels[label] = ids
	}
	if _, ok := ids[id]; ok {
		return errors.WithStack(models.ErrDuplicate)
	}
	ids[id] = struct{}{}
	return nil
}

func (m *memoryStore) RemoveLabel(_ context.Context, id int64, label models.Label) error {
	delete(m.labels[label], id)
	return nil
}
