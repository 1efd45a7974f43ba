// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// invalid input, overflow, etc.) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Typed errors match the ErrInvalidArgument and ErrArithmeticOverflow
// sentinels through errors.Is, so callers never need a type switch to tell a
// rejected input from an overflowing result.
package apperrors
