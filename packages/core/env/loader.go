package env

import (
	"os"
	"strings"
)

// VariablePrefix marks process environment variables that become call
// variables: EXTAPI_VAR_baseUrl sets {{baseUrl}}.
const VariablePrefix = "EXTAPI_VAR_"

// MergeVariables merges variable sources into one map. Later sources win.
func MergeVariables(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns process environment variables whose names start with
// prefix, with the prefix removed. An empty prefix returns everything.
func LoadSystemEnv(prefix string) map[string]string {
	result := make(map[string]string)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}
