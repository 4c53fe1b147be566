package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by Run.
const (
	ExitSuccess = 0 // ok
	ExitFailure = 1 // load/save failed or the todo does not exist
	ExitUsage   = 2 // bad arguments
)

// ExitError carries the exit code a failed command should produce.
type ExitError struct {
	Code int
	Err  error
	Hint string // optional follow-up line
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func failure(err error) *ExitError { return &ExitError{Code: ExitFailure, Err: err} }

func usagef(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Err: fmt.Errorf(format, args...)}
}

// exitCode maps err to a process exit code. Errors that did not come from a
// command body are cobra's own argument and flag errors.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitUsage
}
