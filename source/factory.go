package source

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Default sizes used when a config leaves them unset.
const (
	// DefaultBatchSize is the number of records per batch for file sources
	// and archive replays when none is requested.
	DefaultBatchSize = 1000

	// DefaultBufferSize is the read buffer size for file sources.
	DefaultBufferSize = 64 * 1024
)

// FileConfig provides configuration options for creating a File source.
type FileConfig struct {
	// Path is the newline-delimited text file to read.
	// This field is required.
	Path string

	// BatchSize is the maximum number of records per batch.
	// If zero, DefaultBatchSize is used.
	BatchSize int

	// Compressed marks the file as a snappy framed stream.
	Compressed bool

	// BufferSize controls the size of the read buffer.
	// If zero, DefaultBufferSize is used.
	BufferSize int
}

// Validate checks if the FileConfig is valid.
func (c FileConfig) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return errors.New("path cannot be empty")
	}
	if c.BatchSize < 0 {
		return errors.New("batch size cannot be negative")
	}
	if c.BufferSize < 0 {
		return errors.New("buffer size cannot be negative")
	}
	return nil
}

// NewFile opens a File source with the given configuration and stages its
// first batch.
//
// Example:
//
//	src, err := source.NewFile(source.FileConfig{
//		Path:      "reports.txt",
//		BatchSize: 5000,
//	})
//	if err != nil {
//		// handle error
//	}
//	defer src.Close()
func NewFile(config FileConfig) (*File, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid file config: %w", err)
	}

	batchSize := config.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	bufSize := config.BufferSize
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	f, err := os.Open(config.Path)
	if err != nil {
		return nil, err
	}

	s := &File{
		path:       config.Path,
		batchSize:  batchSize,
		compressed: config.Compressed,
		f:          f,
		r:          bufio.NewReaderSize(wrapReader(f, config.Compressed), bufSize),
		batch:      make([]string, 0, batchSize),
	}
	s.Next()
	if s.err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("read %s: %w", config.Path, s.err)
	}
	return s, nil
}

// RepeatConfig provides configuration options for creating a Repeat source.
type RepeatConfig struct {
	// Records is the base collection. It is not copied.
	Records []string

	// Repetitions is how many times the collection is served.
	// It must be at least 1.
	Repetitions int
}

// Validate checks if the RepeatConfig is valid.
func (c RepeatConfig) Validate() error {
	if c.Repetitions < 1 {
		return errors.New("repetitions must be at least 1")
	}
	return nil
}

// NewRepeat creates a Repeat source with the given configuration.
//
// Example:
//
//	src, err := source.NewRepeat(source.RepeatConfig{
//		Records:     dataset.Real(),
//		Repetitions: 300,
//	})
//	if err != nil {
//		// handle error
//	}
func NewRepeat(config RepeatConfig) (*Repeat, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid repeat config: %w", err)
	}
	return &Repeat{
		records: config.Records,
		left:    config.Repetitions,
		total:   config.Repetitions,
	}, nil
}
