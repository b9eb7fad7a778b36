// Package metar defines the closed tag sets produced by a METAR/TAF report
// parser, the result types it returns, and a small reference tokenizer.
//
// The harness treats a parser as an opaque ParseFunc: a report goes in, a
// Result with zero or more classified groups and an optional ReportError comes
// out. Every group is tagged with a Category (what kind of element it is) and a
// Part (which section of the report it was found in).
//
// Each tag set is declared once, in order, and exposes dense indexes and stable
// names in both directions:
//
//	for _, c := range metar.Categories() {
//		for _, p := range metar.Parts() {
//			fmt.Println(c.Index()*metar.NumParts+p.Index(), c, p)
//		}
//	}
package metar
