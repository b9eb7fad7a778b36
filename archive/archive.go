// Package archive provides append-only stores of text records that can be
// replayed exactly once as a source.Source.
//
// Three backends are available: Memory keeps records in a slice, File writes
// them to a newline-delimited (optionally snappy compressed) file and SQLite
// keeps them in a table shared by many archives through an SQLiteStore.
package archive

import (
	"errors"
	"strings"

	"github.com/MasterOfBinary/reportbench/source"
)

var (
	// ErrSealed is returned when an archive is appended to or replayed after
	// it has already been replayed.
	ErrSealed = errors.New("archive is sealed")

	// ErrMultiline is returned by the file backend when a record contains a
	// newline anywhere but at its end.
	ErrMultiline = errors.New("record contains an interior newline")
)

// CheckLine returns ErrMultiline if record has a newline anywhere but at its
// end. Such a record cannot be stored as a single line.
func CheckLine(record string) error {
	if strings.Contains(strings.TrimSuffix(record, "\n"), "\n") {
		return ErrMultiline
	}
	return nil
}

// Archive is an append-only store of text records.
//
// Records are accepted until the first call to Source, which seals the
// archive and returns a source replaying every record in append order.
// Afterwards Append and Source both return ErrSealed. Closing an archive
// seals it as well.
type Archive interface {
	// Append adds a record to the end of the archive.
	Append(record string) error

	// Source seals the archive and returns a Source over its records in
	// batches of at most batchSize.
	Source(batchSize int) (source.Source, error)

	// Len returns the number of records appended so far.
	Len() int

	// Close releases the resources held by the archive. A source returned by
	// Source must be closed separately.
	Close() error
}
