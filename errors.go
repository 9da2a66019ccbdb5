package gcis

import (
	"errors"
	"fmt"
)

// Sentinel error families per spec.md §7, in the teacher's
// errors.New/errors.Is idiom (ErrInvalidUTF8, ErrUnsupportedIntSize).
var (
	ErrInvalidArgument    = errors.New("gcis: invalid argument")
	ErrIoFailure          = errors.New("gcis: io failure")
	ErrCorruptInput       = errors.New("gcis: corrupt input")
	ErrInvariantViolation = errors.New("gcis: invariant violation")
)

// CorruptInputError names the offending field of a CorruptInput fault,
// per spec.md §7 ("fatal, with the offending field named").
type CorruptInputError struct {
	Field string
	Msg   string
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("gcis: corrupt input: %s: %s", e.Field, e.Msg)
}

func (e *CorruptInputError) Is(target error) bool {
	return target == ErrCorruptInput
}

func newCorruptInput(field, msg string) error {
	return &CorruptInputError{Field: field, Msg: msg}
}
