// Package source contains implementations of the Source interface, which
// streams text records in bounded batches regardless of where they live:
//
// - Memory: a whole in-memory collection served as one batch
// - Chunked: an in-memory collection served in fixed-size batches
// - Repeat: an in-memory collection replayed a fixed number of times
// - File: a newline-delimited file, optionally snappy compressed, read in
// bounded batches
//
// Basic usage of the Chunked source:
//
//	src := source.NewChunked([]string{"a", "b", "c"}, 2)
//	for {
//		fmt.Println(src.Batch())
//		if !src.Next() {
//			break
//		}
//	}
//
// Output:
//
//	[a b]
//	[c]
package source
