// Package harness drives a report parser over a source.Source and measures
// it.
//
// A Tester parses every report of every batch, times each batch, feeds the
// timings to a stats.Performance and routes every parse result into an
// archiver.Archiver for later analysis. Stats and archiver are optional:
//
//	src, _ := source.NewRepeat(source.RepeatConfig{
//		Records:     dataset.Real(),
//		Repetitions: 300,
//	})
//	perf := stats.NewPerformance()
//	arch, _ := archiver.New(archiver.Options{})
//	defer arch.Close()
//
//	t := harness.New(src, metar.Parse).
//		WithStats(perf).
//		WithArchiver(arch)
//	if err := t.Run(ctx); err != nil {
//		// handle error
//	}
//	perf.Print("report", os.Stdout)
//
// Errors returned by Run are wrapped: source failures in a SourceError,
// archive failures in an ArchiveError.
package harness
