package store

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the store. Callers match with errors.Is;
// lower-level sqlite errors are wrapped with operation context and one of
// these sentinels where the kind is known.
var (
	// ErrNotFound reports a uid/id lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a duplicate sync op id. Callers must treat the
	// op as already applied, not retry with overwrite.
	ErrConflict = errors.New("duplicate op id")

	// ErrBusy reports that the single writer slot could not be acquired
	// within the configured timeout.
	ErrBusy = errors.New("store busy: write lock timeout")

	// ErrConstraint reports a uniqueness or foreign-key violation.
	ErrConstraint = errors.New("constraint violation")
)

// classify maps raw sqlite errors onto the store's sentinel kinds so
// callers never have to string-match driver output themselves.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrConstraint) {
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, "constraint") || strings.Contains(msg, "UNIQUE") ||
		strings.Contains(msg, "FOREIGN KEY") {
		return fmt.Errorf("%w: %v", ErrConstraint, err)
	}
	return err
}
