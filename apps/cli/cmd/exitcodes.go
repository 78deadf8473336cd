package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/extapi/packages/call"
)

// Exit codes for extapi CLI
const (
	// ExitSuccess indicates the call was sent and every expectation held
	ExitSuccess = 0

	// ExitAssertionFailure indicates one or more expectations failed
	ExitAssertionFailure = 1

	// ExitParseError indicates an unreadable .api, .env or response document
	ExitParseError = 2

	// ExitConfigError indicates a configuration error: bad URL, missing
	// credentials, invalid parameters or a bad config file
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

var errAssertionsFailed = errors.New("expectations failed")

// exitError pins an exit code to an error. shown marks errors a formatter
// has already reported.
type exitError struct {
	code  int
	err   error
	shown bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: ExitUsageError, err: err}
}

func configError(err error) error {
	return &exitError{code: ExitConfigError, err: err}
}

func parseError(err error) error {
	return &exitError{code: ExitParseError, err: err}
}

// shownError marks err as already reported to the user.
func shownError(err error) error {
	return &exitError{code: exitCodeFor(err), err: err, shown: true}
}

func errorShown(err error) bool {
	var ee *exitError
	return errors.As(err, &ee) && ee.shown
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) && !ee.shown {
		return ee.code
	}

	switch {
	case errors.Is(err, errAssertionsFailed):
		return ExitAssertionFailure
	case errors.Is(err, call.ErrTransport):
		return ExitNetworkError
	case errors.Is(err, call.ErrParse):
		return ExitParseError
	case errors.Is(err, call.ErrInvalidURL),
		errors.Is(err, call.ErrInvalidCredentials),
		errors.Is(err, call.ErrInvalidParameter),
		errors.Is(err, call.ErrNoMethod),
		errors.Is(err, call.ErrConflictingAuth):
		return ExitConfigError
	}

	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitAssertionFailure
}
