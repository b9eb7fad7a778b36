package source

// Source yields an ordered collection of text records in bounded batches.
//
// A Source always has a current batch staged, starting with the first one as
// soon as it is created. Callers process it and then ask for the next:
//
//	for {
//		for _, record := range src.Batch() {
//			// ...
//		}
//		if !src.Next() {
//			break
//		}
//	}
//	if err := src.Err(); err != nil {
//		// handle error
//	}
//
// Traversing a Source this way visits every record of the underlying
// collection exactly once per traversal, in insertion (or file) order.
type Source interface {
	// Batch returns the batch currently staged. It does not advance the
	// position. The returned slice is only valid until the next call to Next.
	Batch() []string

	// Next stages the following batch and reports whether there was one. Once
	// Next returns false the source is exhausted and whatever Batch still
	// returns has already been visited.
	Next() bool

	// Err returns the first non-EOF error encountered by Next, if any.
	Err() error

	// TotalSize returns the total number of records across all batches. File
	// sources count their records on first use and cache the result.
	TotalSize() (int, error)

	// Close releases any resources held by the source.
	Close() error
}
