package dictionary

import (
	"context"
	"time"

	"github.com/example/livedict/pkg/models"
)

// ItemStore persists translations
type ItemStore interface {
	Insert(ctx context.Context, translations []models.Translation) error
	// InsertSingle returns false when the (foreign, native) pair already exists
	InsertSingle(ctx context.Context, translation models.Translation) (bool, error)
	// Update returns the number of rows changed. A pair collision is reported
	// as models.ErrDuplicate.
	Update(ctx context.Context, translation models.Translation) (int64, error)
	// Delete removes the translations with their answers and label links
	Delete(ctx context.Context, translations []models.Translation) error
	// GetAll returns every translation in insertion order, oldest first
	GetAll(ctx context.Context) ([]models.Translation, error)
}

// AnswerStore persists the answers log
type AnswerStore interface {
	// LogAnswer returns false when no translation has the given id
	LogAnswer(ctx context.Context, translationID int64, outcome models.Outcome, at time.Time) (bool, error)
	GetAnswersByTranslationID(ctx context.Context) (map[int64][]models.AnswerRecord, error)
}

// LabelStore links labels to translations
type LabelStore interface {
	GetTranslationIDsWithLabel(ctx context.Context, label models.Label) (map[int64]struct{}, error)
	// AddLabel reports an existing link as models.ErrDuplicate
	AddLabel(ctx context.Context, translationID int64, label models.Label) error
	RemoveLabel(ctx context.Context, translationID int64, label models.Label) error
}

// Stores groups the storage collaborators. Labels may be nil, in which case
// no translation carries a label.
type Stores struct {
	Items   ItemStore
	Answers AnswerStore
	Labels  LabelStore
}
