// Package dataset holds a small collection of real METAR and TAF reports
// that can be replayed to benchmark a parser without any input file.
package dataset

import (
	_ "embed"
	"strings"
)

//go:embed reports.txt
var reports string

// Real returns the embedded reports, one per element, in file order. Every
// call returns a fresh slice.
func Real() []string {
	return strings.Split(strings.TrimSuffix(reports, "\n"), "\n")
}
