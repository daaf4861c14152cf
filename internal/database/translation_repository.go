package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// TranslationRepository handles database operations for translations
type TranslationRepository struct {
	db *sqlx.DB
}

// NewTranslationRepository creates a new repository instance
func NewTranslationRepository(db *sqlx.DB) *TranslationRepository {
	return &TranslationRepository{db: db}
}

const insertTranslation = `
	INSERT INTO translations (foreign_word, native_word)
	VALUES (?, ?)
	ON CONFLICT (foreign_word, native_word) DO NOTHING
`

// GetAll returns all translations, oldest first
func (r *TranslationRepository) GetAll(ctx context.Context) ([]models.Translation, error) {
	var translations []models.Translation
	err := r.db.SelectContext(ctx, &translations, "SELECT id, foreign_word, native_word FROM translations ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get translations")
	}
	return translations, nil
}

// GetByID returns a translation without metadata, or false if there is none
func (r *TranslationRepository) GetByID(ctx context.Context, id int64) (models.Translation, bool, error) {
	var translations []models.Translation
	query := r.db.Rebind("SELECT id, foreign_word, native_word FROM translations WHERE id = ?")
	if err := r.db.SelectContext(ctx, &translations, query, id); err != nil {
		return models.Translation{}, false, errors.Wrap(err, "failed to get translation by ID")
	}
	if len(translations) == 0 {
		return models.Translation{}, false, nil
	}
	return translations[0], true, nil
}

// Insert adds translations in one transaction, skipping pairs that already exist
func (r *TranslationRepository) Insert(ctx context.Context, translations []models.Translation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	query := tx.Rebind(insertTranslation)
	for _, t := range translations {
		if _, err := tx.ExecContext(ctx, query, t.ForeignWord, t.NativeWord); err != nil {
			return errors.Wrapf(err, "failed to insert translation %q", t.String())
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// InsertSingle adds one translation and reports false if the pair exists
func (r *TranslationRepository) InsertSingle(ctx context.Context, t models.Translation) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(insertTranslation), t.ForeignWord, t.NativeWord)
	if err != nil {
		return false, errors.Wrap(err, "failed to insert translation")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to get rows affected")
	}
	return rows > 0, nil
}

// Update changes the words of a translation and returns the rows affected.
// A pair that already exists yields models.ErrDuplicate.
func (r *TranslationRepository) Update(ctx context.Context, t models.Translation) (int64, error) {
	query := r.db.Rebind(`
		UPDATE translations SET
			foreign_word = ?,
			native_word = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, t.ForeignWord, t.NativeWord, t.ID)
	if err != nil {
		return 0, wrap(err, "failed to update translation")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get rows affected")
	}
	return rows, nil
}

// Delete removes translations together with their answers and label links
func (r *TranslationRepository) Delete(ctx context.Context, translations []models.Translation) error {
	ids := make([]int64, 0, len(translations))
	for _, t := range translations {
		if t.IsPersisted() {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	for _, stmt := range []struct {
		query string
		what  string
	}{
		{"DELETE FROM answers_log WHERE translation_id IN (?)", "answers"},
		{"DELETE FROM labelled_translations WHERE translation_id IN (?)", "label links"},
		{"DELETE FROM translations WHERE id IN (?)", "translations"},
	} {
		query, args, err := sqlx.In(stmt.query, ids)
		if err != nil {
			return errors.Wrap(err, "failed to build delete query")
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return errors.Wrapf(err, "failed to delete %s", stmt.what)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// Search returns translations whose words contain pattern, case-insensitively
func (r *TranslationRepository) Search(ctx context.Context, pattern string) ([]models.Translation, error) {
	var translations []models.Translation
	like := "%" + pattern + "%"

	query := `
		SELECT id, foreign_word, native_word FROM translations
		WHERE LOWER(foreign_word) LIKE LOWER(?) OR LOWER(native_word) LIKE LOWER(?)
		ORDER BY id
	`
	if r.db.DriverName() == DriverPostgres {
		query = `
			SELECT id, foreign_word, native_word FROM translations
			WHERE foreign_word ILIKE $1 OR native_word ILIKE $1
			ORDER BY id
		`
		if err := r.db.SelectContext(ctx, &translations, query, like); err != nil {
			return nil, errors.Wrap(err, "failed to search translations")
		}
		return translations, nil
	}

	if err := r.db.SelectContext(ctx, &translations, query, like, like); err != nil {
		return nil, errors.Wrap(err, "failed to search translations")
	}
	return translations, nil
}
