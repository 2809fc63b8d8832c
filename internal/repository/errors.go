// Package repository holds the SQL for each table.  These sentinel values
// allow higher layers to distinguish failure scenarios without inspecting
// driver errors.
package repository

import (
	"errors"

	"github.com/iliyamo/facility-desk/internal/database"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert collides with an existing key.
// It wraps the gateway's duplicate classification so callers only need
// this package.
var ErrConflict = errors.New("conflict")

func conflictOr(err error) error {
	if errors.Is(err, database.ErrDuplicate) {
		return errors.Join(ErrConflict, err)
	}
	return err
}
