package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// StatisticsRepository aggregates the answers log
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Get returns overall counters; AnsweredToday counts answers at or after since
func (r *StatisticsRepository) Get(ctx context.Context, since time.Time) (models.Statistics, error) {
	query := r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM translations) AS total_translations,
			COUNT(*) AS total_answers,
			COALESCE(SUM(CASE WHEN is_correct = 1 THEN 1 ELSE 0 END), 0) AS correct_answers,
			COALESCE(SUM(CASE WHEN is_correct = 0 THEN 1 ELSE 0 END), 0) AS incorrect_answers,
			COALESCE(SUM(CASE WHEN time_answered >= ? THEN 1 ELSE 0 END), 0) AS answered_today
		FROM answers_log
	`)
	var stats models.Statistics
	if err := r.db.GetContext(ctx, &stats, query, since.UnixMilli()); err != nil {
		return models.Statistics{}, errors.Wrap(err, "failed to get statistics")
	}
	stats.Since = since
	return stats, nil
}
