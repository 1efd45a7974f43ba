// Package reducer implements the range-reduction engine: the sum and the
// product of the integers in [1, n], each with a sequential and a parallel
// path, plus arbitrary-precision ("wide") variants.
//
// The parallel path partitions [1, n] into contiguous chunks, computes one
// partial result per chunk on its own goroutine, joins, and combines the
// partials with the same associative operation. Every path validates n
// before any work starts, and every accumulation is checked so a result that
// does not fit in 64 bits is reported as an overflow rather than wrapped.
//
// By convention the product of the empty range [1, 0] is reported as 0.
package reducer
