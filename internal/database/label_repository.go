package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// LabelRepository handles database operations for labels
type LabelRepository struct {
	db *sqlx.DB
}

// NewLabelRepository creates a new repository instance
func NewLabelRepository(db *sqlx.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

// LabelName is a row of the labels table
type LabelName struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// GetAll returns the labels table in id order
func (r *LabelRepository) GetAll(ctx context.Context) ([]LabelName, error) {
	var labels []LabelName
	if err := r.db.SelectContext(ctx, &labels, "SELECT id, name FROM labels ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "failed to get labels")
	}
	return labels, nil
}

// GetTranslationIDsWithLabel returns the ids of translations carrying label
func (r *LabelRepository) GetTranslationIDsWithLabel(ctx context.Context, label models.Label) (map[int64]struct{}, error) {
	var ids []int64
	query := r.db.Rebind("SELECT translation_id FROM labelled_translations WHERE label_id = ?")
	if err := r.db.SelectContext(ctx, &ids, query, label.ID()); err != nil {
		return nil, errors.Wrap(err, "failed to get labelled translations")
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// AddLabel links a label to a translation. An existing link yields
// models.ErrDuplicate.
func (r *LabelRepository) AddLabel(ctx context.Context, translationID int64, label models.Label) error {
	query := r.db.Rebind("INSERT INTO labelled_translations (translation_id, label_id) VALUES (?, ?)")
	if _, err := r.db.ExecContext(ctx, query, translationID, label.ID()); err != nil {
		return wrap(err, "failed to add label")
	}
	return nil
}

// RemoveLabel unlinks a label; removing a missing link is not an error
func (r *LabelRepository) RemoveLabel(ctx context.Context, translationID int64, label models.Label) error {
	query := r.db.Rebind("DELETE FROM labelled_translations WHERE translation_id = ? AND label_id = ?")
	if _, err := r.db.ExecContext(ctx, query, translationID, label.ID()); err != nil {
		return errors.Wrap(err, "failed to remove label")
	}
	return nil
}

// CountByLabel returns how many translations carry each label
func (r *LabelRepository) CountByLabel(ctx context.Context) (map[models.Label]int, error) {
	var rows []struct {
		LabelID int64 `db:"label_id"`
		Count   int   `db:"count"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT label_id, COUNT(*) AS count
		FROM labelled_translations
		GROUP BY label_id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count labels")
	}

	counts := make(map[models.Label]int, len(models.AllLabels))
	for _, row := range rows {
		counts[models.Label(row.LabelID)] = row.Count
	}
	return counts, nil
}
