package archive

import "github.com/MasterOfBinary/reportbench/source"

// Memory is an Archive kept in a slice.
type Memory struct {
	records []string
	sealed  bool
}

// NewMemory creates an empty Memory archive.
func NewMemory() *Memory {
	return &Memory{}
}

// Append implements the Archive interface.
func (a *Memory) Append(record string) error {
	if a.sealed {
		return ErrSealed
	}
	a.records = append(a.records, record)
	return nil
}

// Source implements the Archive interface. A batchSize that is not positive
// replays every record as one batch.
func (a *Memory) Source(batchSize int) (source.Source, error) {
	if a.sealed {
		return nil, ErrSealed
	}
	a.sealed = true
	return source.NewChunked(a.records, batchSize), nil
}

// Len implements the Archive interface.
func (a *Memory) Len() int { return len(a.records) }

// Close implements the Archive interface. The archive is sealed.
func (a *Memory) Close() error {
	a.sealed = true
	return nil
}
