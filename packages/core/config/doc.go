// Package config handles configuration loading and management for extapi.
//
// It provides functionality for:
//   - Loading configuration from .extapi.json, extapi.json, .extapi.yaml or
//     extapi.yaml
//   - Default configuration values
//   - Merging file configuration with command-line overrides
//   - The state file remembering the last used .api file
package config
