package source

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/golang/snappy"
)

// File is a Source over a newline-delimited text file. Records are read in
// batches of at most BatchSize lines; the newline terminator is stripped, and
// a final line without one is still a record.
//
// The first batch is staged when the source is opened. The file is closed as
// soon as it is exhausted.
type File struct {
	path       string
	batchSize  int
	compressed bool

	f     *os.File
	r     *bufio.Reader
	batch []string
	done  bool
	err   error

	size      int
	sizeKnown bool
}

// Batch implements the Source interface.
func (s *File) Batch() []string { return s.batch }

// Next implements the Source interface. It reads up to BatchSize lines and
// returns true if at least one was read. A short read at end of file stages
// the partial batch; the call after that returns false.
func (s *File) Next() bool {
	s.batch = s.batch[:0]
	if s.done {
		return false
	}

	for len(s.batch) < s.batchSize {
		line, err := s.r.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if line != "" {
					s.batch = append(s.batch, line)
				}
			} else {
				s.err = err
			}
			s.finish()
			break
		}
		s.batch = append(s.batch, line[:len(line)-1])
	}

	return len(s.batch) > 0
}

func (s *File) finish() {
	s.done = true
	if s.f == nil {
		return
	}
	if err := s.f.Close(); err != nil && s.err == nil {
		s.err = err
	}
	s.f = nil
}

// Err implements the Source interface.
func (s *File) Err() error { return s.err }

// TotalSize implements the Source interface. The file is scanned once, on the
// first call, and the count is cached.
func (s *File) TotalSize() (int, error) {
	if s.sizeKnown {
		return s.size, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := CountRecords(wrapReader(f, s.compressed))
	if err != nil {
		return 0, err
	}
	s.size, s.sizeKnown = n, true
	return n, nil
}

// Path returns the path of the underlying file.
func (s *File) Path() string { return s.path }

// Close implements the Source interface. It is safe to call more than once.
func (s *File) Close() error {
	s.done = true
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// CountRecords returns the number of newline-delimited records in r. A final
// line without a terminator counts as a record.
func CountRecords(r io.Reader) (int, error) {
	buf := make([]byte, DefaultBufferSize)
	count := 0
	last := byte('\n')
	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if last != '\n' {
		count++
	}
	return count, nil
}

func wrapReader(r io.Reader, compressed bool) io.Reader {
	if compressed {
		return snappy.NewReader(r)
	}
	return r
}
