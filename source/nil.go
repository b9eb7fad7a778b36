package source

// Nil is a Source that doesn't hold any data. Its only batch is empty. It can
// be used as a mock Source.
type Nil struct{}

// Batch implements the Source interface.
func (Nil) Batch() []string { return nil }

// Next implements the Source interface.
func (Nil) Next() bool { return false }

// Err implements the Source interface.
func (Nil) Err() error { return nil }

// TotalSize implements the Source interface.
func (Nil) TotalSize() (int, error) { return 0, nil }

// Close implements the Source interface.
func (Nil) Close() error { return nil }
