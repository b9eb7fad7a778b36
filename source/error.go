package source

// Error is a Source that serves its records as a single batch and then fails:
// the first call to Next returns false and sets Err. It provides no real data
// and is useful for testing how callers handle a source that breaks partway
// through.
type Error struct {
	// Records is served as the staged batch before the failure.
	Records []string
	// Failure is reported by Err once Next has been called. A nil Failure
	// makes Error behave like an exhausted Memory source.
	Failure error

	failed bool
	closed bool
}

// Batch implements the Source interface.
func (s *Error) Batch() []string {
	if s.failed {
		return nil
	}
	return s.Records
}

// Next implements the Source interface. It always returns false.
func (s *Error) Next() bool {
	s.failed = true
	return false
}

// Err implements the Source interface.
func (s *Error) Err() error {
	if !s.failed {
		return nil
	}
	return s.Failure
}

// TotalSize implements the Source interface.
func (s *Error) TotalSize() (int, error) { return len(s.Records), nil }

// Close implements the Source interface.
func (s *Error) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *Error) Closed() bool { return s.closed }
