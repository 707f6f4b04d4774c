package settings

import (
	"errors"
	"fmt"
)

// Validation failures reported by every Manager implementation.
// Match them with errors.Is.
var (
	ErrProfileNotFound      = errors.New("profile does not exist")
	ErrProfileAlreadyExists = errors.New("profile already exists")
	ErrInvalidProfileName   = errors.New("invalid profile name")
	ErrLastProfile          = errors.New("cannot remove the last remaining profile")
	ErrInvalidLoadPriority  = errors.New("invalid load priority")

	// ErrInvalidSolution is returned when a manager cannot be bound to its solution
	ErrInvalidSolution = errors.New("invalid solution")

	// ErrPropertyNotFound is returned by a WritableStore read of a missing property
	ErrPropertyNotFound = errors.New("property not found")
	// ErrPropertyType is returned when a property holds a different kind of value
	ErrPropertyType = errors.New("property has a different type")
)

// ProfileError records which operation failed on which profile
type ProfileError struct {
	Op      string // Operation, e.g. "add", "rename"
	Profile string // Profile name the operation was given
	Err     error  // One of the sentinel errors above
}

// Error implements the error interface
func (e *ProfileError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Profile, e.Err)
}

// Unwrap returns the underlying sentinel
func (e *ProfileError) Unwrap() error {
	return e.Err
}

func profileErr(op, profile string, err error) error {
	return &ProfileError{Op: op, Profile: profile, Err: err}
}
