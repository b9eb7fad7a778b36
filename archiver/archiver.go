// Package archiver routes parsed report groups into one archive per
// (category, report part) pair, and reports that failed to parse into a
// separate error archive.
package archiver

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/MasterOfBinary/reportbench/archive"
	"github.com/MasterOfBinary/reportbench/metar"
	"github.com/MasterOfBinary/reportbench/source"
)

// Backend selects where an Archiver keeps its archives.
type Backend string

// The available backends.
const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// ParseBackend returns the Backend with the given name.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendMemory, BackendFile, BackendSQLite:
		return b, nil
	}
	return "", fmt.Errorf("unknown archive backend %q", name)
}

const (
	// ErrorArchiveName is the name of the archive holding failed reports.
	ErrorArchiveName = "reportError"

	// SQLiteFileName is the database file used by the sqlite backend.
	SQLiteFileName = "archives.db"
)

const numArchives = metar.NumCategories * metar.NumParts

// Options provides configuration options for creating an Archiver.
type Options struct {
	// Backend selects the archive implementation.
	// If empty, BackendMemory is used.
	Backend Backend

	// Dir is the directory the file and sqlite backends write to.
	// If empty, the current directory is used.
	Dir string

	// Compress makes the file backend write snappy compressed archives.
	Compress bool

	// ReplayBatchSize is the batch size of sources returned by Group.
	// If zero, source.DefaultBatchSize is used.
	ReplayBatchSize int
}

// Validate checks if the Options are valid.
func (o Options) Validate() error {
	switch o.Backend {
	case "", BackendMemory, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown archive backend %q", o.Backend)
	}
	if o.ReplayBatchSize < 0 {
		return errors.New("replay batch size cannot be negative")
	}
	if o.Compress && o.Backend != BackendFile {
		return errors.New("compression requires the file backend")
	}
	return nil
}

// Name returns the archive name for a (category, part) pair, for example
// "CloudGroup-metar".
func Name(c metar.Category, p metar.Part) string {
	return c.String() + "-" + p.String()
}

// Names returns the name of every archive an Archiver creates: the group
// archives in index order followed by ErrorArchiveName.
func Names() []string {
	names := make([]string, 0, numArchives+1)
	for _, c := range metar.Categories() {
		for _, p := range metar.Parts() {
			names = append(names, Name(c, p))
		}
	}
	return append(names, ErrorArchiveName)
}

// FileName returns the file name the file backend uses for the archive name.
func FileName(name string, compress bool) string {
	if compress {
		return name + ".txt.sz"
	}
	return name + ".txt"
}

// Archiver owns one archive per (category, part) pair plus the error archive.
// It is not safe for concurrent use.
type Archiver struct {
	opts   Options
	groups [numArchives]archive.Archive
	errs   archive.Archive
	store  *archive.SQLiteStore
}

// New creates an Archiver and every archive it routes to.
func New(opts Options) (*Archiver, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid archiver options: %w", err)
	}
	if opts.Backend == "" {
		opts.Backend = BackendMemory
	}
	if opts.ReplayBatchSize == 0 {
		opts.ReplayBatchSize = source.DefaultBatchSize
	}

	a := &Archiver{opts: opts}
	if opts.Backend == BackendSQLite {
		store, err := archive.OpenSQLiteStore(filepath.Join(opts.Dir, SQLiteFileName))
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	for _, c := range metar.Categories() {
		for _, p := range metar.Parts() {
			ar, err := a.open(Name(c, p))
			if err != nil {
				a.Close()
				return nil, err
			}
			a.groups[index(c, p)] = ar
		}
	}

	errs, err := a.open(ErrorArchiveName)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.errs = errs
	return a, nil
}

func (a *Archiver) open(name string) (archive.Archive, error) {
	switch a.opts.Backend {
	case BackendFile:
		return archive.NewFile(archive.FileConfig{
			Path:     filepath.Join(a.opts.Dir, FileName(name, a.opts.Compress)),
			Compress: a.opts.Compress,
		})
	case BackendSQLite:
		return a.store.Archive(name)
	default:
		return archive.NewMemory(), nil
	}
}

func index(c metar.Category, p metar.Part) int {
	if !c.Valid() || !p.Valid() {
		panic(fmt.Sprintf("archiver: no archive for category %d, part %d", int(c), int(p)))
	}
	return c.Index()*metar.NumParts + p.Index()
}

// AddGroup appends the group's raw text to the archive for its category and
// part. It panics if either is outside the closed set.
func (a *Archiver) AddGroup(g metar.Group) error {
	return a.groups[index(g.Category, g.Part)].Append(g.Raw)
}

// AddResult appends every group of r in order.
func (a *Archiver) AddResult(r metar.Result) error {
	for _, g := range r.Groups {
		if err := a.AddGroup(g); err != nil {
			return err
		}
	}
	return nil
}

// AddErrorReport appends the error name followed by the report text to the
// error archive. A report spanning several lines is rejected with
// archive.ErrMultiline before anything is written, so entries always come in
// pairs.
func (a *Archiver) AddErrorReport(e metar.ReportError, report string) error {
	if err := archive.CheckLine(report); err != nil {
		return err
	}
	if err := a.errs.Append(e.String()); err != nil {
		return err
	}
	return a.errs.Append(report)
}

// RouteResult archives one parsed report: the error pair first when the
// report failed to parse, then every group that was recognised.
func (a *Archiver) RouteResult(r metar.Result, report string) error {
	if !r.OK() {
		if err := a.AddErrorReport(r.Error, report); err != nil {
			return err
		}
	}
	return a.AddResult(r)
}

// Group seals the archive for (c, p) and returns a source replaying it. It
// can be called only once per pair.
func (a *Archiver) Group(c metar.Category, p metar.Part) (source.Source, error) {
	return a.groups[index(c, p)].Source(a.opts.ReplayBatchSize)
}

// GroupLen returns the number of records archived for (c, p).
func (a *Archiver) GroupLen(c metar.Category, p metar.Part) int {
	return a.groups[index(c, p)].Len()
}

// ErrorCount returns the number of reports in the error archive.
func (a *Archiver) ErrorCount() int {
	return a.errs.Len() / 2
}

// PrintErrorReports writes the error count followed by every entry of the
// error archive, one per line. It writes nothing and returns false if no
// report failed. The error archive is sealed afterwards.
func (a *Archiver) PrintErrorReports(w io.Writer) (bool, error) {
	if a.errs.Len() == 0 {
		return false, nil
	}

	src, err := a.errs.Source(a.opts.ReplayBatchSize)
	if err != nil {
		return false, err
	}
	defer src.Close()

	if _, err := fmt.Fprintf(w, "Reports with errors: %d\n", a.ErrorCount()); err != nil {
		return true, err
	}
	for {
		for _, entry := range src.Batch() {
			if _, err := fmt.Fprintln(w, entry); err != nil {
				return true, err
			}
		}
		if !src.Next() {
			break
		}
	}
	return true, src.Err()
}

// Close releases every archive and, for the sqlite backend, the database.
func (a *Archiver) Close() error {
	var err error
	for _, ar := range a.groups {
		if ar != nil {
			err = multierr.Append(err, ar.Close())
		}
	}
	if a.errs != nil {
		err = multierr.Append(err, a.errs.Close())
	}
	if a.store != nil {
		err = multierr.Append(err, a.store.Close())
		a.store = nil
	}
	return err
}
