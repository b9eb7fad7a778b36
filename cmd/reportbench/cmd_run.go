package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MasterOfBinary/reportbench/archiver"
	"github.com/MasterOfBinary/reportbench/dataset"
	"github.com/MasterOfBinary/reportbench/harness"
	"github.com/MasterOfBinary/reportbench/metar"
	"github.com/MasterOfBinary/reportbench/source"
	"github.com/MasterOfBinary/reportbench/stats"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark the parser and rank unrecognised groups",
		Long: `Parses every report of the source, then prints:
  1. Throughput per report and per group
  2. Reports the parser rejected, with the error for each
  3. The most frequent groups of the ranked category (UnknownGroup by
     default) across every report part

Without --file the embedded dataset is replayed --repetitions times and the
ranking is compensated for the repetition.`,
		Args: cobra.NoArgs,
		RunE: runBenchmark,
	}

	cmd.Flags().String("file", "", "Newline-delimited report file (default: embedded dataset)")
	cmd.Flags().Bool("compressed", false, "The report file is snappy compressed")
	cmd.Flags().Int("batch-size", 0, "Reports per batch when reading a file")
	cmd.Flags().Int("repetitions", 0, "How many times the embedded dataset is replayed")
	cmd.Flags().String("backend", "", "Archive backend: memory, file or sqlite")
	cmd.Flags().String("dir", "", "Directory for file and sqlite archives")
	cmd.Flags().Int("top", 0, "Only print the most frequent entries of the ranking")
	return cmd
}

// applyRunFlags copies every flag the user set onto the loaded config.
func applyRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Source.Path, _ = flags.GetString("file")
	}
	if flags.Changed("compressed") {
		cfg.Source.Compressed, _ = flags.GetBool("compressed")
	}
	if flags.Changed("batch-size") {
		cfg.Source.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("repetitions") {
		cfg.Source.Repetitions, _ = flags.GetInt("repetitions")
	}
	if flags.Changed("backend") {
		cfg.Archive.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("dir") {
		cfg.Archive.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("top") {
		cfg.Report.Top, _ = flags.GetInt("top")
	}
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	applyRunFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, repetitions, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	opts, err := cfg.ArchiverOptions()
	if err != nil {
		return err
	}
	if opts.Backend != archiver.BackendMemory && opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	arch, err := archiver.New(opts)
	if err != nil {
		return err
	}
	defer arch.Close()

	perf := stats.NewPerformance()
	tester := harness.New(src, metar.Parse).
		WithStats(perf).
		WithArchiver(arch).
		WithLogger(harness.NewZapLogger(logger)).
		WithVerbose(verbose)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Checking overall parser performance")
	size, err := tester.TestSetSize()
	if err != nil {
		return fmt.Errorf("failed to size test set: %w", err)
	}
	fmt.Fprintf(out, "Test set size is %s\n", humanize.Comma(int64(size)))

	logger.Info("starting run",
		zap.Int("reports", size),
		zap.String("backend", string(opts.Backend)),
		zap.Int("repetitions", repetitions))

	if err := tester.Run(ctx); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	fmt.Fprintln(out)

	perf.Print(harness.ReportMetric, out)
	perf.Print(harness.GroupMetric, out)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Reports not recognised by the parser:")
	printed, err := arch.PrintErrorReports(out)
	if err != nil {
		return fmt.Errorf("failed to list error reports: %w", err)
	}
	if !printed {
		fmt.Fprintln(out, "no report errors, all reports parsed successfully")
	}
	fmt.Fprintln(out)

	category := cfg.RankCategory()
	fmt.Fprintln(out, rankingHeading(category))
	freq, err := rankCategory(arch, category)
	if err != nil {
		return err
	}
	if err := freq.CompensateRepetitions(uint64(repetitions)); err != nil {
		return err
	}
	if err := printRanking(out, freq, cfg.Report.Top); err != nil {
		return err
	}

	logger.Info("run complete",
		zap.Uint64("reports", tester.Reports()),
		zap.Uint64("groups", tester.Groups()),
		zap.Int("errors", arch.ErrorCount()))
	return nil
}

// openSource returns the configured report source and the repetition factor
// its ranking must be compensated by.
func openSource() (source.Source, int, error) {
	if cfg.Source.Path != "" {
		src, err := source.NewFile(cfg.FileConfig())
		if err != nil {
			return nil, 0, fmt.Errorf("failed to open reports: %w", err)
		}
		return src, 1, nil
	}

	src, err := source.NewRepeat(source.RepeatConfig{
		Records:     dataset.Real(),
		Repetitions: cfg.Source.Repetitions,
	})
	if err != nil {
		return nil, 0, err
	}
	return src, cfg.Source.Repetitions, nil
}

func rankingHeading(c metar.Category) string {
	if c == metar.UnknownGroup {
		return "Groups not recognised by the parser:"
	}
	return fmt.Sprintf("Most frequent %s groups:", c)
}

// rankCategory tallies the archives of c across every report part.
func rankCategory(arch *archiver.Archiver, c metar.Category) (*stats.Frequency, error) {
	freq := stats.NewFrequency()
	for _, p := range metar.Parts() {
		src, err := arch.Group(c, p)
		if err != nil {
			return nil, fmt.Errorf("failed to replay %s: %w", archiver.Name(c, p), err)
		}
		err = freq.AddSource(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to replay %s: %w", archiver.Name(c, p), err)
		}
	}
	return freq, nil
}

// printRanking prints the ranking, limited to top entries when top is
// positive.
func printRanking(w io.Writer, freq *stats.Frequency, top int) error {
	if top <= 0 || top >= freq.Len() {
		return freq.PrintDescending(w)
	}
	for _, e := range freq.Ranked()[:top] {
		if _, err := fmt.Fprintf(w, "%d: %s\n", e.Count, e.Text); err != nil {
			return err
		}
	}
	return nil
}
