// Package errors provides structured error types for the move-evm library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes context: field path, the symbol involved, the offending
// value, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("code", "instruction").
//		Value(opcode).
//		Detail("truncated operand at offset %d", off).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ModuleMissing("0xa::Registry", "get")
//	err := errors.OutOfBounds(errors.PhaseLinking, path, 10, 5)
//
// Phase and Kind alone identify an error for errors.Is, so a bare
// &Error{Phase: PhaseLinking, Kind: KindModuleMissing} works as a sentinel.
// All errors implement the standard error interface and support errors.Is/As.
package errors
