// Package errors provides structured error types for the accessibility bridge.
//
// Errors are categorized by Op (the bridge operation that failed) and Kind
// (error category). Use the Builder for structured construction:
//
//	err := errors.New(errors.OpUpsert, errors.KindInvalidInput).
//		ID("btn").
//		Detail("parent id equals node id").
//		Build()
//
// or the convenience constructors for common cases:
//
//	err := errors.Allocation(errors.OpUpsert, "btn", 65536)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
