// Package http builds and executes extapi requests.
//
// It wraps the standard library's http package with additional features:
//   - Building the final URL (GET) or form body (POST) from call parameters
//   - OAuth 1.0a signing (header or inline) and Basic authentication
//   - Configurable timeouts, redirects, proxy and TLS verification
//   - A one-shot response body that can be consumed exactly once
package http
