// Package runner executes API calls.
//
// A Runner turns a call.Call into exactly one HTTP request: it validates the
// call, signs it when OAuth credentials are present, sends it, and returns a
// Result whose body the caller reads once. XML responses are parsed into an
// XMLNode tree; the raw text stays available through the body.
//
// Each Execute is independent. There are no retries and no shared state
// between calls.
package runner
