package models

import "github.com/pkg/errors"

var (
	// ErrDuplicate is returned by storage when a (foreign, native) pair or a
	// label link already exists.
	ErrDuplicate = errors.New("already exists")

	ErrInvalidOutcome = errors.New("invalid outcome")
	ErrInvalidLabel   = errors.New("invalid label")
)
