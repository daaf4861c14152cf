package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// AnswerRepository handles the answers log
type AnswerRepository struct {
	db *sqlx.DB
}

// NewAnswerRepository creates a new repository instance
func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// answerRow is an answers_log row; time_answered is in Unix milliseconds
type answerRow struct {
	TranslationID int64 `db:"translation_id"`
	TimeAnswered  int64 `db:"time_answered"`
	IsCorrect     int   `db:"is_correct"`
}

func (a answerRow) record() models.AnswerRecord {
	return models.NewAnswer(models.Outcome(a.IsCorrect), time.UnixMilli(a.TimeAnswered).UTC())
}

// LogAnswer appends an answer and reports false if the translation doesn't exist
func (r *AnswerRepository) LogAnswer(ctx context.Context, translationID int64, outcome models.Outcome, at time.Time) (bool, error) {
	if translationID <= 0 {
		return false, nil
	}

	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind("SELECT COUNT(*) FROM translations WHERE id = ?"), translationID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check translation")
	}
	if count == 0 {
		return false, nil
	}

	query := r.db.Rebind(`
		INSERT INTO answers_log (translation_id, time_answered, is_correct)
		VALUES (?, ?, ?)
	`)
	if _, err := r.db.ExecContext(ctx, query, translationID, at.UnixMilli(), int(outcome)); err != nil {
		return false, errors.Wrap(err, "failed to log answer")
	}
	return true, nil
}

// GetAnswersByTranslationID returns every answer grouped by translation, each
// group in chronological order
func (r *AnswerRepository) GetAnswersByTranslationID(ctx context.Context) (map[int64][]models.AnswerRecord, error) {
	var rows []answerRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT translation_id, time_answered, is_correct
		FROM answers_log
		ORDER BY time_answered, id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get answers")
	}

	answers := make(map[int64][]models.AnswerRecord)
	for _, row := range rows {
		answers[row.TranslationID] = append(answers[row.TranslationID], row.record())
	}
	return answers, nil
}

// GetByTranslationID returns the history of one translation
func (r *AnswerRepository) GetByTranslationID(ctx context.Context, translationID int64) ([]models.AnswerRecord, error) {
	var rows []answerRow
	query := r.db.Rebind(`
		SELECT translation_id, time_answered, is_correct
		FROM answers_log
		WHERE translation_id = ?
		ORDER BY time_answered, id
	`)
	if err := r.db.SelectContext(ctx, &rows, query, translationID); err != nil {
		return nil, errors.Wrap(err, "failed to get answers by translation")
	}

	history := make([]models.AnswerRecord, 0, len(rows))
	for _, row := range rows {
		history = append(history, row.record())
	}
	return history, nil
}
