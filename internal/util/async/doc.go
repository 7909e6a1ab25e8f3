// Package async provides helpers for fanning independent work out to
// goroutines.
//
// [Collect] runs one function per input concurrently and returns every
// result in input order. It is used by the health reconciler to probe
// nodes in parallel while keeping the aggregation step strictly after the
// last node has reported.
package async
