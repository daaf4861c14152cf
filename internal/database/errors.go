package database

import (
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/example/livedict/pkg/models"
)

// pqUniqueViolation is the SQLSTATE for unique_violation
const pqUniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation reports whether err comes from a UNIQUE constraint in
// either supported driver
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

// wrap maps unique violations to models.ErrDuplicate and adds context to
// everything else
func wrap(err error, msg string) error {
	if isUniqueViolation(err) {
		return errors.Wrap(models.ErrDuplicate, msg)
	}
	return errors.Wrap(err, msg)
}
