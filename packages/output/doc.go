// Package output provides formatters for displaying call results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//
// The JSON formatter accumulates everything about one call and writes a
// single object on Flush.
package output
