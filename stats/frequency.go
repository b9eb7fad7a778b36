package stats

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/MasterOfBinary/reportbench/source"
)

// ErrAlreadyCompensated is returned when CompensateRepetitions is called a
// second time.
var ErrAlreadyCompensated = errors.New("repetitions already compensated")

// Entry is one distinct string and the number of times it was seen.
type Entry struct {
	Count uint64
	Text  string
}

// Frequency tallies occurrences of distinct strings. It is not safe for
// concurrent use.
type Frequency struct {
	counts      map[string]uint64
	compensated bool
}

// NewFrequency creates an empty Frequency.
func NewFrequency() *Frequency {
	return &Frequency{counts: make(map[string]uint64)}
}

// Add counts one occurrence of text.
func (f *Frequency) Add(text string) {
	f.counts[text]++
}

// AddSource drains src, counting every record. The source is consumed but not
// closed.
func (f *Frequency) AddSource(src source.Source) error {
	for {
		for _, text := range src.Batch() {
			f.Add(text)
		}
		if !src.Next() {
			break
		}
	}
	return src.Err()
}

// CompensateRepetitions integer-divides every count by repetitions. It undoes
// the amplification of a dataset that was replayed repetitions times and must
// be called once, after every occurrence has been added. Entries whose count
// drops to zero are removed.
func (f *Frequency) CompensateRepetitions(repetitions uint64) error {
	if repetitions == 0 {
		return errors.New("repetitions must be at least 1")
	}
	if f.compensated {
		return ErrAlreadyCompensated
	}
	f.compensated = true

	for text, n := range f.counts {
		n /= repetitions
		if n == 0 {
			delete(f.counts, text)
			continue
		}
		f.counts[text] = n
	}
	return nil
}

// Count returns how many times text was seen.
func (f *Frequency) Count(text string) uint64 { return f.counts[text] }

// Len returns the number of distinct strings.
func (f *Frequency) Len() int { return len(f.counts) }

// Ranked returns every entry, most frequent first. The order of entries with
// equal counts is unspecified.
func (f *Frequency) Ranked() []Entry {
	entries := make([]Entry, 0, len(f.counts))
	for text, n := range f.counts {
		entries = append(entries, Entry{Count: n, Text: text})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Text < entries[j].Text
	})
	return entries
}

// PrintDescending writes one "<count>: <text>" line per entry, most frequent
// first.
func (f *Frequency) PrintDescending(w io.Writer) error {
	for _, e := range f.Ranked() {
		if _, err := fmt.Fprintf(w, "%d: %s\n", e.Count, e.Text); err != nil {
			return err
		}
	}
	return nil
}
