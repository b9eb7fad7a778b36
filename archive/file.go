package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"

	"github.com/MasterOfBinary/reportbench/source"
)

// FileConfig provides configuration options for creating a File archive.
type FileConfig struct {
	// Path is the file to write. An existing file is truncated.
	// This field is required.
	Path string

	// Compress writes the archive as a snappy framed stream.
	Compress bool
}

// Validate checks if the FileConfig is valid.
func (c FileConfig) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return errors.New("path cannot be empty")
	}
	return nil
}

// File is an Archive backed by a newline-delimited text file. Each record is
// written on its own line; a terminating newline is added when the record
// does not end with one.
//
// The first write failure is kept and returned from every later call.
type File struct {
	path     string
	compress bool

	f     *os.File
	w     io.Writer
	flush func() error

	n      int
	err    error
	sealed bool
}

// NewFile creates a File archive, truncating any existing file at the path.
func NewFile(config FileConfig) (*File, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid file archive config: %w", err)
	}

	f, err := os.Create(config.Path)
	if err != nil {
		return nil, err
	}

	a := &File{path: config.Path, compress: config.Compress, f: f}
	if config.Compress {
		sw := snappy.NewBufferedWriter(f)
		a.w, a.flush = sw, sw.Close
	} else {
		bw := bufio.NewWriterSize(f, source.DefaultBufferSize)
		a.w, a.flush = bw, bw.Flush
	}
	return a, nil
}

// Path returns the path of the archive file.
func (a *File) Path() string { return a.path }

// Append implements the Archive interface. A record with a newline anywhere
// but at its end is rejected with ErrMultiline and not written.
func (a *File) Append(record string) error {
	if a.err != nil {
		return a.err
	}
	if a.sealed {
		return ErrSealed
	}

	if err := CheckLine(record); err != nil {
		return err
	}
	line := strings.TrimSuffix(record, "\n")

	if _, err := io.WriteString(a.w, line); err != nil {
		a.err = fmt.Errorf("write %s: %w", a.path, err)
		return a.err
	}
	if _, err := io.WriteString(a.w, "\n"); err != nil {
		a.err = fmt.Errorf("write %s: %w", a.path, err)
		return a.err
	}
	a.n++
	return nil
}

// Source implements the Archive interface. The file is flushed and closed,
// then reopened for reading. A batchSize that is not positive uses
// source.DefaultBatchSize.
func (a *File) Source(batchSize int) (source.Source, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.sealed {
		return nil, ErrSealed
	}
	if err := a.seal(); err != nil {
		return nil, err
	}

	if batchSize < 0 {
		batchSize = 0
	}
	src, err := source.NewFile(source.FileConfig{
		Path:       a.path,
		BatchSize:  batchSize,
		Compressed: a.compress,
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (a *File) seal() error {
	a.sealed = true
	if a.f == nil {
		return a.err
	}

	if err := a.flush(); err != nil {
		a.err = fmt.Errorf("flush %s: %w", a.path, err)
	}
	if err := a.f.Close(); err != nil && a.err == nil {
		a.err = fmt.Errorf("close %s: %w", a.path, err)
	}
	a.f = nil
	return a.err
}

// Len implements the Archive interface.
func (a *File) Len() int { return a.n }

// Close implements the Archive interface. Buffered records are flushed to
// disk. It is safe to call more than once.
func (a *File) Close() error {
	if a.f == nil {
		return a.err
	}
	return a.seal()
}
