// Package assertions checks a response against expectations.
//
// Supported expectations:
//   - Status code (one or more allowed codes)
//   - JSON Schema validation of the body
//   - Path checks: "user.name == John", "items length 3", "id exists",
//     "header Content-Type contains json", "duration < 500"
//
// Operators: ==, !=, >, >=, <, <=, contains, matches, exists, !exists,
// length, type.
package assertions
