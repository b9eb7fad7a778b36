package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MasterOfBinary/reportbench/archiver"
)

func newArchivesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archives",
		Short: "List the archives a run creates",
		Long: `Prints the location of every archive for the configured backend: one file
per (category, report part) pair plus the error archive for the file backend,
or the archive names inside the database for the sqlite backend.`,
		Args: cobra.NoArgs,
		RunE: listArchives,
	}
}

func listArchives(cmd *cobra.Command, args []string) error {
	opts, err := cfg.ArchiverOptions()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, name := range archiver.Names() {
		switch opts.Backend {
		case archiver.BackendFile:
			fmt.Fprintln(out, filepath.Join(opts.Dir, archiver.FileName(name, opts.Compress)))
		case archiver.BackendSQLite:
			fmt.Fprintf(out, "%s:%s\n", filepath.Join(opts.Dir, archiver.SQLiteFileName), name)
		default:
			fmt.Fprintln(out, name)
		}
	}
	return nil
}
