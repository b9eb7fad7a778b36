package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MasterOfBinary/reportbench/archiver"
	"github.com/MasterOfBinary/reportbench/metar"
	"github.com/MasterOfBinary/reportbench/source"
	"github.com/MasterOfBinary/reportbench/stats"
)

// Metric names recorded by a Tester.
const (
	ReportMetric = "report"
	GroupMetric  = "group"
)

// Tester measures a parser over every report of a source.
//
// A Tester can be run once; the source is consumed by the run.
type Tester struct {
	src      source.Source
	parse    metar.ParseFunc
	stats    *stats.Performance
	archiver *archiver.Archiver
	logger   Logger
	verbose  bool

	mu      sync.Mutex
	running bool
	done    bool

	reports uint64
	groups  uint64
	results []metar.Result
}

// New creates a Tester that parses the reports of src with parse.
func New(src source.Source, parse metar.ParseFunc) *Tester {
	return &Tester{
		src:    src,
		parse:  parse,
		logger: NoOpLogger{},
	}
}

// WithStats sets where batch timings are recorded. If not set, no timings
// are recorded.
//
// Panics if called after Run has started.
func (t *Tester) WithStats(p *stats.Performance) *Tester {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		panic("harness: WithStats cannot be called after Run() has started")
	}

	t.stats = p
	return t
}

// WithArchiver sets where parse results are routed. If not set, results are
// discarded after counting.
//
// Panics if called after Run has started.
func (t *Tester) WithArchiver(a *archiver.Archiver) *Tester {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		panic("harness: WithArchiver cannot be called after Run() has started")
	}

	t.archiver = a
	return t
}

// WithLogger sets a custom logger. If not set, no logging occurs.
//
// Panics if called after Run has started.
func (t *Tester) WithLogger(logger Logger) *Tester {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		panic("harness: WithLogger cannot be called after Run() has started")
	}

	if logger == nil {
		logger = NoOpLogger{}
	}
	t.logger = logger
	return t
}

// WithVerbose makes progress after every batch log at info level instead of
// debug level.
//
// Panics if called after Run has started.
func (t *Tester) WithVerbose(verbose bool) *Tester {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		panic("harness: WithVerbose cannot be called after Run() has started")
	}

	t.verbose = verbose
	return t
}

// Run parses the source to exhaustion. Batches are processed one at a time:
// every report is parsed, the parse loop is timed, the timing is recorded
// under ReportMetric and GroupMetric and every result is routed to the
// archiver.
//
// The context is checked between batches. Run returns the first source or
// archive failure; reports that fail to parse are not failures of the run.
func (t *Tester) Run(ctx context.Context) error {
	t.mu.Lock()
	if t.running || t.done {
		t.mu.Unlock()
		return errors.New("harness: Run can only be called once")
	}
	t.running = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.done = true
		t.mu.Unlock()
	}()

	total, err := t.src.TotalSize()
	if err != nil {
		return SourceError{Err: err}
	}
	t.logger.Debug("test set size is %d", total)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch := t.src.Batch()
		if err := t.runBatch(batch); err != nil {
			return err
		}
		t.progress(total)

		if !t.src.Next() {
			break
		}
	}

	if err := t.src.Err(); err != nil {
		t.logger.Error("source failed after %d reports: %v", t.reports, err)
		return SourceError{Err: err}
	}
	t.logger.Debug("run complete: %d reports, %d groups", t.reports, t.groups)
	return nil
}

func (t *Tester) runBatch(batch []string) error {
	results := t.results[:0]
	begin := time.Now()
	for _, report := range batch {
		results = append(results, t.parse(report))
	}
	elapsed := time.Since(begin)
	t.results = results

	groups := countGroups(results)
	if t.stats != nil {
		t.stats.Record(ReportMetric, elapsed, uint64(len(results)))
		t.stats.Record(GroupMetric, elapsed, groups)
	}
	t.reports += uint64(len(results))
	t.groups += groups

	return t.route(results, batch)
}

func (t *Tester) route(results []metar.Result, batch []string) error {
	if t.archiver == nil {
		return nil
	}
	if len(results) != len(batch) {
		return fmt.Errorf("%w: %d results for %d reports", ErrResultMismatch, len(results), len(batch))
	}
	for i, r := range results {
		if err := t.archiver.RouteResult(r, batch[i]); err != nil {
			t.logger.Error("failed to archive report %q: %v", batch[i], err)
			return ArchiveError{Err: err}
		}
	}
	return nil
}

func (t *Tester) progress(total int) {
	pct := uint64(100)
	if total > 0 {
		pct = t.reports * 100 / uint64(total)
	}

	log := t.logger.Debug
	if t.verbose {
		log = t.logger.Info
	}
	log("processed %d reports of %d (%d%%), %d groups parsed", t.reports, total, pct, t.groups)
}

func countGroups(results []metar.Result) uint64 {
	var n uint64
	for _, r := range results {
		n += uint64(len(r.Groups))
	}
	return n
}

// Reports returns the number of reports parsed so far.
func (t *Tester) Reports() uint64 { return t.reports }

// Groups returns the number of groups parsed so far.
func (t *Tester) Groups() uint64 { return t.groups }

// TestSetSize returns the total number of reports the source holds.
func (t *Tester) TestSetSize() (int, error) { return t.src.TotalSize() }
