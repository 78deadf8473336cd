package call

import "errors"

// Error conditions reported by the engine. Callers match them with errors.Is;
// the wrapping error carries the detail.
var (
	// ErrInvalidURL means the base URL could not be parsed or is not http(s).
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidCredentials means OAuth signing was requested with an incomplete
	// credential set.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidParameter means a parameter has an empty or duplicate name.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNoMethod means no request method was selected.
	ErrNoMethod = errors.New("no request method selected")

	// ErrConflictingAuth means both OAuth and Basic authentication were enabled.
	ErrConflictingAuth = errors.New("conflicting authentication modes")

	// ErrTransport wraps network, TLS and timeout failures during execution.
	ErrTransport = errors.New("transport error")

	// ErrParse means a response claimed to be XML but could not be parsed.
	ErrParse = errors.New("parse error")
)
