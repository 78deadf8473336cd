// Package env handles environment variables and variable resolution for extapi.
//
// It provides functionality for:
//   - Loading .env files
//   - Variable interpolation using {{variable}} syntax
//   - Process environment references using {{$NAME}}
//   - Built-in function evaluation ({{uuid()}}, {{timestamp()}}, ...)
package env
