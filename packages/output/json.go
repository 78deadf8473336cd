package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/extapi/packages/assertions"
	"github.com/abdul-hamid-achik/extapi/packages/core/runner"
	"github.com/abdul-hamid-achik/extapi/packages/history"
	"github.com/abdul-hamid-achik/extapi/packages/http"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Request    *JSONRequest    `json:"request,omitempty"`
	Response   *JSONResponse   `json:"response,omitempty"`
	Assertions []JSONAssertion `json:"assertions,omitempty"`
	History    []JSONEntry     `json:"history,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// JSONRequest represents request details
type JSONRequest struct {
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	BaseString string            `json:"signatureBaseString,omitempty"`
}

// JSONResponse represents response details. Body holds the JSON document
// itself when the response is JSON, and a string otherwise.
type JSONResponse struct {
	StatusCode int               `json:"statusCode"`
	Status     string            `json:"status"`
	FinalURL   string            `json:"finalUrl"`
	DurationMs int64             `json:"durationMs"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       any               `json:"body"`
	XML        string            `json:"xml,omitempty"`
	XMLError   string            `json:"xmlError,omitempty"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	Subject  string `json:"subject"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
}

// JSONEntry is one history entry.
type JSONEntry struct {
	ExecutedAt string `json:"executedAt"`
	File       string `json:"file,omitempty"`
	Method     string `json:"method"`
	URL        string `json:"url"`
	AuthMode   string `json:"authMode"`
	StatusCode int    `json:"statusCode,omitempty"`
	DurationMs int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

// JSONFormatter collects one call's output and writes it as a single JSON
// object on Flush.
type JSONFormatter struct {
	writer io.Writer
	out    JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(res *runner.Result, body []byte) {
	resp := &JSONResponse{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		FinalURL:   res.FinalURL,
		DurationMs: res.Duration.Milliseconds(),
		Headers:    res.Headers,
		Body:       string(body),
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		resp.Body = json.RawMessage(trimmed)
	}
	if res.XML != nil {
		resp.XML = res.XML.String()
	}
	if res.XMLErr != nil {
		resp.XMLError = res.XMLErr.Error()
	}

	f.out.Response = resp
}

func (f *JSONFormatter) FormatRequest(req *http.Request) {
	r := &JSONRequest{
		Method:  req.Method,
		URL:     req.URL,
		Headers: MaskHeaders(req.Headers),
		Body:    req.Body,
	}
	if req.Signature != nil {
		r.BaseString = req.Signature.BaseString
	}
	f.out.Request = r
}

func (f *JSONFormatter) FormatAssertions(results []*assertions.Result) {
	for _, a := range results {
		f.out.Assertions = append(f.out.Assertions, JSONAssertion{
			Subject:  a.Subject,
			Operator: a.Operator,
			Expected: a.Expected,
			Actual:   a.Actual,
			Passed:   a.Passed,
			Message:  a.Message,
		})
	}
}

func (f *JSONFormatter) FormatHistory(entries []history.Entry) {
	f.out.History = make([]JSONEntry, 0, len(entries))
	for _, e := range entries {
		f.out.History = append(f.out.History, JSONEntry{
			ExecutedAt: e.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			File:       e.File,
			Method:     e.Method,
			URL:        e.URL,
			AuthMode:   e.AuthMode,
			StatusCode: e.StatusCode,
			DurationMs: e.Duration.Milliseconds(),
			Error:      e.Error,
		})
	}
}

func (f *JSONFormatter) FormatError(err error) {
	f.out.Error = err.Error()
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output and resets the formatter.
func (f *JSONFormatter) Flush() error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(f.out)
	f.out = JSONOutput{}
	return err
}
