package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/assertions"
	"github.com/abdul-hamid-achik/extapi/packages/core/runner"
	"github.com/abdul-hamid-achik/extapi/packages/history"
	"github.com/abdul-hamid-achik/extapi/packages/http"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

// RenderBody returns the body as it is shown to a person: the indented
// document for XML, pretty-printed JSON when the body starts with { or [ and
// parses, and the raw text otherwise.
func RenderBody(res *runner.Result, body []byte, colored bool) string {
	if res != nil && res.XML != nil {
		return res.XML.String()
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && gjson.ValidBytes(trimmed) {
		out := pretty.Pretty(trimmed)
		if colored {
			out = pretty.Color(out, nil)
		}
		return strings.TrimRight(string(out), "\n")
	}

	return string(body)
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 500:
		return color.New(color.FgRed, color.Bold)
	case code >= 400:
		return color.New(color.FgYellow, color.Bold)
	case code >= 300:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

// FormatResult prints the status line, the URL and the body.
func (f *ConsoleFormatter) FormatResult(res *runner.Result, body []byte) {
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	status := res.Status
	if status == "" {
		status = fmt.Sprintf("%d", res.StatusCode)
	}
	fmt.Fprintf(f.writer, "%s %s\n", statusColor(res.StatusCode).Sprint(status), cyan(fmt.Sprintf("(%dms)", res.Duration.Milliseconds())))
	fmt.Fprintf(f.writer, "%s %s\n", faint("URL:"), res.FinalURL)
	if res.ResponseURL != "" && res.ResponseURL != res.FinalURL {
		fmt.Fprintf(f.writer, "%s %s\n", faint("Redirected to:"), res.ResponseURL)
	}

	if f.verbose {
		f.writeHeaders(res.Headers)
	}

	if res.XMLErr != nil {
		fmt.Fprintf(f.writer, "%s %v\n", yellow("Warning:"), res.XMLErr)
	}

	fmt.Fprintf(f.writer, "\n%s\n", RenderBody(res, body, !color.NoColor))
}

// FormatRequest prints a built request without sending it. Basic credentials
// are masked.
func (f *ConsoleFormatter) FormatRequest(req *http.Request) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold(req.Method), req.URL)
	f.writeHeaders(MaskHeaders(req.Headers))
	if req.Body != "" {
		fmt.Fprintf(f.writer, "\n%s\n", req.Body)
	}
	if f.verbose && req.Signature != nil {
		fmt.Fprintf(f.writer, "\n%s\n%s\n", faint("Signature base string:"), req.Signature.BaseString)
	}
}

func (f *ConsoleFormatter) writeHeaders(headers map[string]string) {
	faint := color.New(color.Faint).SprintFunc()
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(f.writer, "%s %s\n", faint(k+":"), headers[k])
	}
}

// FormatAssertions prints one line per check and details for failures.
func (f *ConsoleFormatter) FormatAssertions(results []*assertions.Result) {
	if len(results) == 0 {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\n")
	passed := 0
	for _, a := range results {
		if a.Passed {
			passed++
			fmt.Fprintf(f.writer, "  %s %s %s %s\n", green("✓"), a.Subject, a.Operator, formatValue(a.Expected, 100))
			continue
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", red("✗"), a.Subject, a.Operator)
		fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(a.Expected, 100))
		fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(a.Actual, 100))
		if a.Message != "" {
			fmt.Fprintf(f.writer, "      %s\n", a.Message)
		}
	}

	summary := fmt.Sprintf("%d/%d checks passed", passed, len(results))
	if passed == len(results) {
		fmt.Fprintf(f.writer, "\n%s\n", green(summary))
	} else {
		fmt.Fprintf(f.writer, "\n%s\n", red(summary))
	}
}

// FormatHistory prints history entries, newest first.
func (f *ConsoleFormatter) FormatHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(f.writer, "No calls recorded yet.")
		return
	}
	faint := color.New(color.Faint).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, e := range entries {
		status := red("ERR")
		if e.Succeeded() {
			status = statusColor(e.StatusCode).Sprintf("%d", e.StatusCode)
		}
		fmt.Fprintf(f.writer, "%s  %-4s %s  %s %s\n",
			faint(e.ExecutedAt.Local().Format("2006-01-02 15:04:05")),
			e.Method, status, e.URL,
			faint(fmt.Sprintf("(%dms, %s)", e.Duration.Milliseconds(), e.AuthMode)))
		if e.Error != "" {
			fmt.Fprintf(f.writer, "    %s\n", red(e.Error))
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("extapi"), version)
}

// MaskHeaders returns a copy of headers with Basic credentials hidden.
func MaskHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.EqualFold(k, "Authorization") && strings.HasPrefix(v, "Basic ") {
			v = "Basic ********"
		}
		out[k] = v
	}
	return out
}
