// Package errors defines the failure taxonomy of a rivet run.
//
// Every failure surfaced by the engine is an *AppError carrying a
// machine-readable code (COMPOSITION_FAILURE, CHECKPOINT_NOT_FOUND,
// EXTERNAL_TOOL_FAILURE, SCRIPT_IO_FAILURE, ...), a human message, structured
// details and the underlying cause. None of them are recovered locally: the
// scheduler stops at the first one and the CLI reports it and exits non-zero.
package errors
