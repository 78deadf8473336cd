// Package curl turns curl command lines into saved API calls.
package curl

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/call"
)

// Converter converts curl commands to saved calls.
type Converter struct {
	keepPassword bool
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithPassword keeps the -u password on the parsed result so the caller can
// send the call once. It is never part of the settings.
func WithPassword(keep bool) Option {
	return func(c *Converter) {
		c.keepPassword = keep
	}
}

// NewConverter creates a new curl converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsedCurl represents a parsed curl command.
type ParsedCurl struct {
	Method          string
	URL             string
	Headers         map[string]string
	Data            []string
	URLEncodedData  []string
	Get             bool
	BasicAuth       string
	Insecure        bool
	FollowRedirects bool
	Name            string
}

// Conversion is a saved call built from a curl command, with what the .api
// format could not hold.
type Conversion struct {
	Settings *call.Settings
	Name     string
	// Password is set only when the converter keeps passwords.
	Password string
	Headers  map[string]string
	Insecure bool
	Warnings []string
}

// ConvertCommand converts a single curl command.
func (c *Converter) ConvertCommand(curlCmd string) (*Conversion, error) {
	parsed, err := c.Parse(curlCmd)
	if err != nil {
		return nil, err
	}
	return c.ToSettings(parsed)
}

// ReadCommand reads the first curl command from r, joining lines that end
// in a backslash.
func ReadCommand(r io.Reader) (string, error) {
	var currentCmd strings.Builder
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			if currentCmd.Len() > 0 {
				break
			}
			continue
		}

		// Handle line continuations
		if strings.HasSuffix(line, "\\") {
			currentCmd.WriteString(strings.TrimSuffix(line, "\\"))
			currentCmd.WriteString(" ")
			continue
		}

		currentCmd.WriteString(line)
		break
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read curl command: %w", err)
	}
	if currentCmd.Len() == 0 {
		return "", fmt.Errorf("no curl command found")
	}
	return strings.TrimSpace(currentCmd.String()), nil
}

// Parse parses a curl command string into a ParsedCurl struct.
func (c *Converter) Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{
		Headers: make(map[string]string),
	}

	// Normalize the command
	curlCmd = strings.TrimSpace(curlCmd)

	// Remove "curl" prefix if present
	if strings.HasPrefix(curlCmd, "curl ") {
		curlCmd = strings.TrimPrefix(curlCmd, "curl ")
	} else if curlCmd == "curl" {
		return nil, fmt.Errorf("no URL specified")
	}

	// Tokenize the command respecting quotes
	tokens := tokenize(curlCmd)

	value := func(i int) (string, error) {
		if i+1 < len(tokens) {
			return tokens[i+1], nil
		}
		return "", fmt.Errorf("missing value for %s", tokens[i])
	}

	i := 0
	for i < len(tokens) {
		token := tokens[i]

		switch token {
		case "-X", "--request":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Method = strings.ToUpper(v)
			i += 2

		case "-H", "--header":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			if key, val, ok := strings.Cut(v, ":"); ok {
				parsed.Headers[strings.TrimSpace(key)] = strings.TrimSpace(val)
			}
			i += 2

		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Data = append(parsed.Data, v)
			i += 2

		case "--data-urlencode":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.URLEncodedData = append(parsed.URLEncodedData, v)
			i += 2

		case "-G", "--get":
			parsed.Get = true
			i++

		case "-u", "--user":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.BasicAuth = v
			i += 2

		case "-k", "--insecure":
			parsed.Insecure = true
			i++

		case "-L", "--location":
			parsed.FollowRedirects = true
			i++

		case "-A", "--user-agent":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers["User-Agent"] = v
			i += 2

		case "-e", "--referer":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers["Referer"] = v
			i += 2

		case "-b", "--cookie":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers["Cookie"] = v
			i += 2

		case "--url":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.URL = v
			i += 2

		default:
			switch {
			case strings.HasPrefix(token, "-"):
				// Skip unknown flags with potential values
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i += 2
				} else {
					i++
				}
			default:
				// This should be the URL
				if parsed.URL == "" && isURL(token) {
					parsed.URL = token
				}
				i++
			}
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	if parsed.Method == "" {
		parsed.Method = "GET"
		if !parsed.Get && (len(parsed.Data) > 0 || len(parsed.URLEncodedData) > 0) {
			parsed.Method = "POST"
		}
	}

	// Generate a name from the URL
	parsed.Name = sanitizeName(generateName(parsed.URL, parsed.Method))

	return parsed, nil
}

// ToSettings converts a ParsedCurl into a saved call. Query and form data
// become parameters in order. Bodies that are not form data cannot be
// expressed and are an error.
func (c *Converter) ToSettings(parsed *ParsedCurl) (*Conversion, error) {
	method, err := call.ParseMethod(parsed.Method)
	if err != nil {
		return nil, err
	}
	if parsed.Get {
		method = call.Get
	}

	base, query, _ := strings.Cut(parsed.URL, "?")
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	s := call.NewSettings()
	s.LastApiUrl = base
	s.RequestMethod = method

	params, err := parseForm(query)
	if err != nil {
		return nil, fmt.Errorf("query of %s: %w", parsed.URL, err)
	}
	for _, d := range parsed.Data {
		if looksStructured(d) {
			return nil, fmt.Errorf("%w: request body %q is not form data", call.ErrInvalidParameter, truncate(d, 40))
		}
		form, err := parseForm(d)
		if err != nil {
			return nil, err
		}
		params = append(params, form...)
	}
	for _, d := range parsed.URLEncodedData {
		p, err := call.ParseParameter(d)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	if params != nil {
		s.Parameters = params
	}
	if err := s.Parameters.Validate(); err != nil {
		return nil, err
	}

	conv := &Conversion{
		Settings: s,
		Name:     parsed.Name,
		Insecure: parsed.Insecure,
		Headers:  make(map[string]string),
	}

	if parsed.BasicAuth != "" {
		user, pass, _ := strings.Cut(parsed.BasicAuth, ":")
		s.WebAuthUsername = user
		if pass != "" {
			if c.keepPassword {
				conv.Password = pass
			}
			conv.Warnings = append(conv.Warnings, "basic auth password is not saved; pass it with --password or EXTAPI_PASSWORD")
		}
	}

	keys := make([]string, 0, len(parsed.Headers))
	for k := range parsed.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, "Content-Type") && strings.Contains(parsed.Headers[k], "x-www-form-urlencoded") {
			continue
		}
		conv.Headers[k] = parsed.Headers[k]
		conv.Warnings = append(conv.Warnings, fmt.Sprintf("header %s is not saved; add it with -H or the headers config", k))
	}

	if parsed.Insecure {
		conv.Warnings = append(conv.Warnings, "certificate checks are on by default; use --insecure when sending")
	}

	return conv, nil
}

// parseForm splits "a=1&b=2" into parameters, keeping order.
func parseForm(s string) (call.Parameters, error) {
	var params call.Parameters
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", call.ErrInvalidParameter, err)
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", call.ErrInvalidParameter, err)
		}
		params = append(params, call.Parameter{Name: name, Value: value})
	}
	return params, nil
}

func looksStructured(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") || strings.HasPrefix(s, "<") || strings.HasPrefix(s, "@")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inSingleQuote {
				current.WriteRune(r)
			} else {
				escaped = true
			}
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
			} else {
				current.WriteRune(r)
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
			} else {
				current.WriteRune(r)
			}
		case ' ', '\t', '\n':
			if inSingleQuote || inDoubleQuote {
				current.WriteRune(r)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isURL checks if a string looks like a URL.
func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "{{")
}

var urlPathPattern = regexp.MustCompile(`https?://[^/]+(/[^?#]*)?`)

// generateName generates a file name from the URL and method.
func generateName(url, method string) string {
	matches := urlPathPattern.FindStringSubmatch(url)

	path := "/"
	if len(matches) > 1 && matches[1] != "" {
		path = matches[1]
	}

	path = strings.Trim(path, "/")
	if path == "" {
		path = "root"
	}

	path = strings.ReplaceAll(path, "/", "_")
	path = strings.ReplaceAll(path, "-", "_")

	return strings.ToLower(method) + "_" + path
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// sanitizeName sanitizes a name for use as a file name.
func sanitizeName(name string) string {
	result := nonAlnum.ReplaceAllString(name, "_")
	result = strings.Trim(result, "_")

	// Collapse multiple underscores
	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}

	return result
}
