// Package errors provides structured error types for the mux codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go type and shape names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("open-message", "path").
//		GoType("int").
//		Shape("str").
//		Detail("cannot encode integer as string").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnexpectedEOF(path, 4, 1)
//	err := errors.UnknownVariant(path, 99, 2)
//
// All errors are terminal: the codec never retries or recovers internally.
// They implement the standard error interface and support errors.Is/As.
package errors
