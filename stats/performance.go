package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"
)

const microsecondsPerSecond = 1000000

// Metric is a snapshot of one named performance counter.
type Metric struct {
	// Name is the item name, for example "report".
	Name string

	// Microseconds is the total time recorded for the metric. Each recorded
	// duration is truncated to whole microseconds before it is added.
	Microseconds uint64

	// Items is the total number of items processed.
	Items uint64
}

// ItemsPerSecond returns the throughput of the metric, truncated to a whole
// number. A metric with items but no measurable time is treated as if it took
// one microsecond. A metric without items has a throughput of zero.
func (m Metric) ItemsPerSecond() uint64 {
	if m.Items == 0 {
		return 0
	}
	micros := m.Microseconds
	if micros == 0 {
		micros = 1
	}
	return microsecondsPerSecond * m.Items / micros
}

// Performance holds named throughput counters. All operations are
// thread-safe.
type Performance struct {
	mu      sync.RWMutex
	metrics map[string]*Metric
}

// NewPerformance creates an empty Performance.
func NewPerformance() *Performance {
	return &Performance{metrics: make(map[string]*Metric)}
}

// Record adds elapsed time and an item count to the named metric, creating it
// on first use.
func (p *Performance) Record(name string, elapsed time.Duration, items uint64) {
	if elapsed < 0 {
		elapsed = 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.metrics[name]
	if !ok {
		m = &Metric{Name: name}
		p.metrics[name] = m
	}
	m.Microseconds += uint64(elapsed.Microseconds())
	m.Items += items
}

// Metric returns a snapshot of the named metric.
func (p *Performance) Metric(name string) (Metric, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, ok := p.metrics[name]
	if !ok {
		return Metric{}, false
	}
	return *m, true
}

// Names returns the name of every metric in lexicographic order.
func (p *Performance) Names() []string {
	p.mu.RLock()
	names := make([]string, 0, len(p.metrics))
	for name := range p.metrics {
		names = append(names, name)
	}
	p.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Print writes a one-line summary of the named metric to w, for example
//
//	2000000 microseconds, 10 reports, 5 reports per second.
//
// Unknown metrics and metrics without items get an explanatory line instead.
func (p *Performance) Print(name string, w io.Writer) error {
	m, ok := p.Metric(name)
	if !ok {
		_, err := fmt.Fprintf(w, "No performance stats exist for %s.\n", name)
		return err
	}
	if m.Items == 0 {
		_, err := fmt.Fprintf(w, "No processed %ss.\n", name)
		return err
	}

	_, err := fmt.Fprintf(w, "%s, %s, %s per second.\n",
		quantity("microsecond", m.Microseconds),
		quantity(name, m.Items),
		quantity(name, m.ItemsPerSecond()))
	return err
}

// PrintAll prints every metric, ordered by name.
func (p *Performance) PrintAll(w io.Writer) error {
	for _, name := range p.Names() {
		if err := p.Print(name, w); err != nil {
			return err
		}
	}
	return nil
}

func quantity(unit string, n uint64) string {
	switch {
	case n == 0:
		return "<1 " + unit
	case n == 1:
		return "1 " + unit
	default:
		return strconv.FormatUint(n, 10) + " " + unit + "s"
	}
}
