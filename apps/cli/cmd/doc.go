// Package cmd implements the extapi CLI commands using Cobra.
//
// Available commands:
//   - new: Create a saved API call (.api file)
//   - show: Print a saved call with secrets masked
//   - param: Set, remove and list parameters of a saved call
//   - exec: Build, sign and send a call, then show the response
//   - history: List recently sent calls
//   - import: Create saved calls from curl commands
//   - init: Create extapi.yaml and an example call
//   - version: Show extapi version information
//
// exec supports flag overrides on top of the saved call, dry runs, JSON
// output, response queries and expectations, and watch mode.
package cmd
