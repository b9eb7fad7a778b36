package source

// Memory is a Source over an in-memory collection that is served as a single
// batch. Next always returns false.
//
// The collection is not copied, so it must not be modified while the source
// is in use.
type Memory struct {
	records []string
}

// NewMemory creates a Memory source over records.
func NewMemory(records []string) *Memory {
	return &Memory{records: records}
}

// Batch implements the Source interface.
func (s *Memory) Batch() []string { return s.records }

// Next implements the Source interface. The whole collection is the only
// batch, so there is never a next one.
func (s *Memory) Next() bool { return false }

// Err implements the Source interface.
func (s *Memory) Err() error { return nil }

// TotalSize implements the Source interface.
func (s *Memory) TotalSize() (int, error) { return len(s.records), nil }

// Close implements the Source interface.
func (s *Memory) Close() error { return nil }

// Chunked is a Source over an in-memory collection that is served in batches
// of at most a fixed size.
type Chunked struct {
	records    []string
	size       int
	start, end int
}

// NewChunked creates a Chunked source. If batchSize is not positive the whole
// collection is served as one batch.
func NewChunked(records []string, batchSize int) *Chunked {
	if batchSize <= 0 || batchSize > len(records) {
		batchSize = len(records)
	}
	return &Chunked{
		records: records,
		size:    batchSize,
		end:     batchSize,
	}
}

// Batch implements the Source interface.
func (s *Chunked) Batch() []string { return s.records[s.start:s.end] }

// Next implements the Source interface.
func (s *Chunked) Next() bool {
	s.start = s.end
	if s.start >= len(s.records) {
		return false
	}
	s.end = s.start + s.size
	if s.end > len(s.records) {
		s.end = len(s.records)
	}
	return true
}

// Err implements the Source interface.
func (s *Chunked) Err() error { return nil }

// TotalSize implements the Source interface.
func (s *Chunked) TotalSize() (int, error) { return len(s.records), nil }

// Close implements the Source interface.
func (s *Chunked) Close() error { return nil }

// Repeat is a Source that serves the same in-memory batch a fixed number of
// times. It is used to amplify a small fixed dataset into a load test; the
// batch is never re-read or copied between repetitions.
type Repeat struct {
	records []string
	left    int
	total   int
}

// Batch implements the Source interface.
func (s *Repeat) Batch() []string { return s.records }

// Next implements the Source interface. It returns false once all
// repetitions have been served.
func (s *Repeat) Next() bool {
	if len(s.records) == 0 {
		s.left = 0
		return false
	}
	if s.left > 0 {
		s.left--
	}
	return s.left > 0
}

// Err implements the Source interface.
func (s *Repeat) Err() error { return nil }

// TotalSize implements the Source interface. It is the size of the base
// collection times the number of repetitions.
func (s *Repeat) TotalSize() (int, error) { return len(s.records) * s.total, nil }

// Repetitions returns the repetition factor the source was created with.
func (s *Repeat) Repetitions() int { return s.total }

// Close implements the Source interface.
func (s *Repeat) Close() error { return nil }
