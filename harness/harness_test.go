package harness

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasterOfBinary/reportbench/archiver"
	"github.com/MasterOfBinary/reportbench/metar"
	"github.com/MasterOfBinary/reportbench/source"
	"github.com/MasterOfBinary/reportbench/stats"
)

var reports = []string{
	"METAR EGLL 121250Z 24010KT 9999 FEW020 12/08 Q1012",
	"METAR 1234",
	"TAF KJFK 121130Z 1212/1318 24012KT P6SM SCT040",
	"",
}

func newArchiver(t *testing.T) *archiver.Archiver {
	t.Helper()
	a, err := archiver.New(archiver.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestTester_Run(t *testing.T) {
	src, err := source.NewRepeat(source.RepeatConfig{Records: reports, Repetitions: 3})
	require.NoError(t, err)

	perf := stats.NewPerformance()
	arch := newArchiver(t)

	tester := New(src, metar.Parse).WithStats(perf).WithArchiver(arch)
	require.NoError(t, tester.Run(context.Background()))

	var wantGroups uint64
	for _, r := range reports {
		wantGroups += uint64(len(metar.Parse(r).Groups))
	}
	wantGroups *= 3

	assert.Equal(t, uint64(12), tester.Reports())
	assert.Equal(t, wantGroups, tester.Groups())

	m, ok := perf.Metric(ReportMetric)
	require.True(t, ok)
	assert.Equal(t, uint64(12), m.Items)
	m, ok = perf.Metric(GroupMetric)
	require.True(t, ok)
	assert.Equal(t, wantGroups, m.Items)

	assert.Equal(t, 6, arch.ErrorCount(), "two failing reports per traversal")
	assert.Equal(t, 3, arch.GroupLen(metar.CloudGroup, metar.Metar))
	assert.Equal(t, 3, arch.GroupLen(metar.CloudGroup, metar.Taf))

	size, err := tester.TestSetSize()
	require.NoError(t, err)
	assert.Equal(t, 12, size)
}

func TestTester_VisitsEveryReportOnce(t *testing.T) {
	for _, batchSize := range []int{1, 2, 3, 4, 10} {
		var seen []string
		parse := func(report string) metar.Result {
			seen = append(seen, report)
			return metar.Result{}
		}

		tester := New(source.NewChunked(reports, batchSize), parse)
		require.NoError(t, tester.Run(context.Background()))
		assert.Equal(t, reports, seen, "batch size %d", batchSize)
	}
}

func TestTester_WithoutStatsOrArchiver(t *testing.T) {
	tester := New(source.NewMemory(reports), metar.Parse)
	require.NoError(t, tester.Run(context.Background()))
	assert.Equal(t, uint64(len(reports)), tester.Reports())
}

func TestTester_SourceError(t *testing.T) {
	failure := errors.New("disk on fire")
	src := &source.Error{Records: reports[:1], Failure: failure}

	tester := New(src, metar.Parse)
	err := tester.Run(context.Background())

	var srcErr SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, uint64(1), tester.Reports(), "staged batch is processed before the failure")
}

func TestTester_ArchiveError(t *testing.T) {
	arch := newArchiver(t)

	// Replaying an archive seals it, so routing into it afterwards fails.
	sealed, err := arch.Group(metar.CloudGroup, metar.Metar)
	require.NoError(t, err)
	defer sealed.Close()

	tester := New(source.NewMemory(reports[:1]), metar.Parse).WithArchiver(arch)
	err = tester.Run(context.Background())

	var archErr ArchiveError
	require.ErrorAs(t, err, &archErr)
	assert.Contains(t, err.Error(), "archive error")
}

func TestTester_ResultMismatch(t *testing.T) {
	tester := New(source.Nil{}, metar.Parse).WithArchiver(newArchiver(t))

	err := tester.route([]metar.Result{{}}, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrResultMismatch)
}

func TestTester_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tester := New(source.NewMemory(reports), metar.Parse)
	assert.ErrorIs(t, tester.Run(ctx), context.Canceled)
	assert.Zero(t, tester.Reports())
}

func TestTester_RunOnce(t *testing.T) {
	tester := New(source.Nil{}, metar.Parse)
	require.NoError(t, tester.Run(context.Background()))
	assert.Error(t, tester.Run(context.Background()))
}

func TestTester_ArchivesAreReplayable(t *testing.T) {
	arch := newArchiver(t)
	tester := New(source.NewMemory(reports), metar.Parse).WithArchiver(arch)
	require.NoError(t, tester.Run(context.Background()))

	var buf bytes.Buffer
	printed, err := arch.PrintErrorReports(&buf)
	require.NoError(t, err)
	assert.True(t, printed)
	assert.Equal(t,
		"Reports with errors: 2\nexpected location\nMETAR 1234\nempty report\n\n",
		buf.String())
}
