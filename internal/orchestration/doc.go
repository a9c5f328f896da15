// Package orchestration runs a comparison of multiplication algorithms: it
// generates reproducible operands, multiplies them with every selected
// engine concurrently, verifies each product against math/big and against
// the other engines, and hands the results to a presenter. The CLI and the
// TUI plug in through the ProgressReporter and ResultPresenter interfaces.
package orchestration
