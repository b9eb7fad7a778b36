// Package stats accumulates the two kinds of statistics a benchmark run
// produces: Performance, named throughput counters fed with elapsed time and
// item counts, and Frequency, a tally of distinct strings that can be ranked
// by how often they occur.
package stats
