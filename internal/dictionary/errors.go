package dictionary

import "github.com/pkg/errors"

var (
	// ErrPoolExhausted means no translation can be asked right now, either
	// because there are none or because all of them are resting
	ErrPoolExhausted = errors.New("no translation to ask")

	// ErrNoLabelStore is returned by label operations when the dictionary was
	// created without a LabelStore
	ErrNoLabelStore = errors.New("label store not configured")
)
