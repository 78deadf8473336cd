package capture

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// NormalizePath converts array bracket notation to gjson dot notation and
// drops a leading "body." or "$." prefix.
// e.g., "[0].id" -> "0.id", "items[0].tags[1]" -> "items.0.tags.1"
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	for _, prefix := range []string{"$.", "body."} {
		path = strings.TrimPrefix(path, prefix)
	}
	if path == "$" || path == "body" {
		return ""
	}
	result := bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(result, ".")
}

// Extractor reads values out of a JSON document.
type Extractor struct {
	body gjson.Result
	raw  []byte
}

// NewExtractor parses body. It fails when body is not valid JSON.
func NewExtractor(body []byte) (*Extractor, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("response body is not JSON")
	}
	return &Extractor{body: gjson.ParseBytes(body), raw: body}, nil
}

// Get returns the value at path as a Go value (string, float64, bool, nil,
// []any or map[string]any). An empty path returns the whole document.
func (e *Extractor) Get(path string) (any, bool) {
	path = NormalizePath(path)
	if path == "" {
		return e.body.Value(), true
	}

	result := e.body.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// Text returns the value at path as text: strings unquoted, numbers and
// booleans as written, objects and arrays as raw JSON.
func (e *Extractor) Text(path string) (string, bool) {
	path = NormalizePath(path)
	if path == "" {
		return string(e.raw), true
	}

	result := e.body.Get(path)
	if !result.Exists() {
		return "", false
	}
	if result.Type == gjson.String {
		return result.Str, true
	}
	return result.Raw, true
}

// Extract pulls one value from a JSON body as text.
func Extract(body []byte, path string) (string, error) {
	e, err := NewExtractor(body)
	if err != nil {
		return "", err
	}
	value, ok := e.Text(path)
	if !ok {
		return "", fmt.Errorf("path %q not found in response", path)
	}
	return value, nil
}
