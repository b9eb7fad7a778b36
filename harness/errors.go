package harness

import (
	"errors"
	"fmt"
)

// ErrResultMismatch is returned when the number of parse results for a batch
// differs from the number of reports in it.
var ErrResultMismatch = errors.New("parse results do not match batch")

// SourceError is returned when the report source fails.
type SourceError struct {
	Err error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("source error: %v", e.Err)
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// ArchiveError is returned when routing a result into the archives fails.
type ArchiveError struct {
	Err error
}

func (e ArchiveError) Error() string {
	return fmt.Sprintf("archive error: %v", e.Err)
}

func (e ArchiveError) Unwrap() error {
	return e.Err
}
