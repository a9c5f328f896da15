// Package apperrors holds the error types shared by the multiplication
// engines, the runner and the command, and maps each of them to a process
// exit code.
//
// Engines report unsupported operand sizes with DomainError and bad caller
// buffers with ValidationError. The runner wraps engine failures in
// CalculationError, stops at the deadline with TimeoutError and flags wrong
// products with MismatchError. Every wrapper implements Unwrap, so callers
// classify with errors.Is and errors.As.
package apperrors
