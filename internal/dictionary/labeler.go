package dictionary

import (
	"context"

	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// AddLabel attaches label to t and reloads. Attaching a label twice is not an
// error. It returns false when t was never persisted.
func (d *Dictionary) AddLabel(ctx context.Context, t models.Translation, label models.Label) (bool, error) {
	if err := d.checkLabel(label); err != nil {
		return false, err
	}
	if !t.IsPersisted() {
		return false, nil
	}
	err := d.labels.AddLabel(ctx, t.ID, label)
	if errors.Is(err, models.ErrDuplicate) {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to label translation %d", t.ID)
	}
	return true, d.ReloadData(ctx)
}

// RemoveLabel detaches label from t and reloads
func (d *Dictionary) RemoveLabel(ctx context.Context, t models.Translation, label models.Label) (bool, error) {
	if err := d.checkLabel(label); err != nil {
		return false, err
	}
	if !t.IsPersisted() {
		return false, nil
	}
	if err := d.labels.RemoveLabel(ctx, t.ID, label); err != nil {
		return false, errors.Wrapf(err, "failed to unlabel translation %d", t.ID)
	}
	return true, d.ReloadData(ctx)
}

// Labelled returns the stored translations carrying label, in insertion order
func (d *Dictionary) Labelled(ctx context.Context, label models.Label) ([]models.Translation, error) {
	if err := d.checkLabel(label); err != nil {
		return nil, err
	}
	all, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Translation
	for _, t := range all {
		if t.Metadata.HasLabel(label) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (d *Dictionary) checkLabel(label models.Label) error {
	if d.labels == nil {
		return ErrNoLabelStore
	}
	if !label.IsValid() {
		return errors.Wrapf(models.ErrInvalidLabel, "label %d", int(label))
	}
	return nil
}
