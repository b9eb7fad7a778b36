package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MasterOfBinary/reportbench/source"
	"github.com/MasterOfBinary/reportbench/stats"
)

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank [file...]",
		Short: "Rank the lines of archive files by frequency",
		Long: `Counts every line of the given newline-delimited files, for example
archives written by "run --backend file", and prints them most frequent first.

Example:
  reportbench rank archives/UnknownGroup-metar.txt archives/UnknownGroup-remark.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRank,
	}

	cmd.Flags().Bool("compressed", false, "The files are snappy compressed")
	cmd.Flags().Int("repetitions", 1, "Divide every count by this repetition factor")
	cmd.Flags().Int("top", 0, "Only print the most frequent entries")
	return cmd
}

func runRank(cmd *cobra.Command, args []string) error {
	compressed, _ := cmd.Flags().GetBool("compressed")
	repetitions, _ := cmd.Flags().GetInt("repetitions")
	top, _ := cmd.Flags().GetInt("top")
	if repetitions < 1 {
		return fmt.Errorf("repetitions must be at least 1")
	}

	freq := stats.NewFrequency()
	for _, path := range args {
		src, err := source.NewFile(source.FileConfig{Path: path, Compressed: compressed})
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		logRankedFile(path, src)

		err = freq.AddSource(src)
		src.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := freq.CompensateRepetitions(uint64(repetitions)); err != nil {
		return err
	}
	return printRanking(cmd.OutOrStdout(), freq, top)
}

func logRankedFile(path string, src source.Source) {
	size, err := src.TotalSize()
	if err != nil {
		logger.Debug("ranking file", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Debug("ranking file", zap.String("path", path), zap.String("records", humanize.Comma(int64(size))))
}
