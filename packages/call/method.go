package call

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Method is the request method of a call.
type Method int

const (
	// MethodUnset is the zero value; building a request with it fails.
	MethodUnset Method = iota
	Get
	Post
)

// ParseMethod parses "Get"/"Post" case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "get":
		return Get, nil
	case "post":
		return Post, nil
	case "":
		return MethodUnset, ErrNoMethod
	}
	return MethodUnset, fmt.Errorf("%w: unsupported method %q", ErrNoMethod, s)
}

func (m Method) String() string {
	switch m {
	case Get:
		return "Get"
	case Post:
		return "Post"
	}
	return ""
}

// HTTPMethod returns the wire form of the method ("GET", "POST").
func (m Method) HTTPMethod() string {
	switch m {
	case Get:
		return http.MethodGet
	case Post:
		return http.MethodPost
	}
	return ""
}

// Valid reports whether a method has been selected.
func (m Method) Valid() bool {
	return m == Get || m == Post
}

func (m Method) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts "Get"/"Post" and the numeric form older files were
// written with (0 = Get, 1 = Post).
func (m *Method) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch s {
	case "null":
		*m = MethodUnset
		return nil
	case "0":
		*m = Get
		return nil
	case "1":
		*m = Post
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("request method: %w", err)
	}
	if name == "" {
		*m = MethodUnset
		return nil
	}
	parsed, err := ParseMethod(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
