package assertions

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/capture"
	"github.com/abdul-hamid-achik/extapi/packages/core/runner"
	"github.com/xeipuuv/gojsonschema"
)

// Result is the outcome of one check.
type Result struct {
	Passed   bool
	Message  string
	Expected any
	Actual   any
	Subject  string
	Operator string
}

// Expectations are the checks run against a response.
type Expectations struct {
	// Status passes when the status code is any of these.
	Status []int
	// Schema is a JSON Schema file the body must satisfy.
	Schema string
	// Checks are path expressions such as "user.name == John".
	Checks []*Check
}

// Empty reports whether there is nothing to check.
func (e *Expectations) Empty() bool {
	return e == nil || (len(e.Status) == 0 && e.Schema == "" && len(e.Checks) == 0)
}

// Check compares the value at a JSON path, or a header, with an expected
// value.
type Check struct {
	Subject  string
	Operator string
	Expected string
}

var operators = []string{"==", "!=", ">=", "<=", ">", "<", "contains", "matches", "exists", "!exists", "length", "type"}

// ParseCheck parses "subject operator [value]". Subjects are JSON paths,
// "status", "duration" or "header Name".
func ParseCheck(s string) (*Check, error) {
	s = strings.TrimSpace(s)
	for _, op := range operators {
		idx := indexOperator(s, op)
		if idx < 0 {
			continue
		}
		subject := strings.TrimSpace(s[:idx])
		expected := strings.TrimSpace(s[idx+len(op):])
		if subject == "" {
			return nil, fmt.Errorf("check %q has no subject", s)
		}
		if op != "exists" && op != "!exists" && expected == "" {
			return nil, fmt.Errorf("check %q has no expected value", s)
		}
		return &Check{Subject: subject, Operator: op, Expected: unquote(expected)}, nil
	}
	return nil, fmt.Errorf("check %q has no operator (use one of %s)", s, strings.Join(operators, ", "))
}

// indexOperator finds op as a separate word so that "exists" inside a path
// or ">" inside "!=" is not matched.
func indexOperator(s, op string) int {
	for i := 0; i+len(op) <= len(s); i++ {
		if s[i:i+len(op)] != op {
			continue
		}
		before := i == 0 || s[i-1] == ' '
		after := i+len(op) == len(s) || s[i+len(op)] == ' '
		if before && after {
			return i
		}
	}
	return -1
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// Evaluator runs expectations against one result. body is the response body,
// already read.
type Evaluator struct {
	result    *runner.Result
	body      []byte
	extractor *capture.Extractor
	jsonErr   error
}

func NewEvaluator(result *runner.Result, body []byte) *Evaluator {
	e := &Evaluator{result: result, body: body}
	e.extractor, e.jsonErr = capture.NewExtractor(body)
	return e
}

// Evaluate runs every expectation and returns one result per check.
func Evaluate(result *runner.Result, body []byte, exp *Expectations) []*Result {
	if exp.Empty() {
		return nil
	}

	e := NewEvaluator(result, body)
	var results []*Result
	if len(exp.Status) > 0 {
		results = append(results, e.status(exp.Status))
	}
	if exp.Schema != "" {
		results = append(results, e.schema(exp.Schema))
	}
	for _, c := range exp.Checks {
		results = append(results, e.Evaluate(c))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []*Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func (e *Evaluator) status(allowed []int) *Result {
	res := &Result{
		Subject:  "status",
		Operator: "in",
		Expected: allowed,
		Actual:   e.result.StatusCode,
	}
	for _, s := range allowed {
		if s == e.result.StatusCode {
			res.Passed = true
			return res
		}
	}
	if len(allowed) == 1 {
		res.Operator = "=="
		res.Expected = allowed[0]
		res.Message = fmt.Sprintf("expected status %d, got %d", allowed[0], e.result.StatusCode)
	} else {
		res.Message = fmt.Sprintf("expected status in %v, got %d", allowed, e.result.StatusCode)
	}
	return res
}

func (e *Evaluator) schema(path string) *Result {
	res := &Result{Subject: "body", Operator: "schema", Expected: path}

	schemaData, err := os.ReadFile(path)
	if err != nil {
		res.Message = fmt.Sprintf("failed to read schema file: %v", err)
		return res
	}
	if e.jsonErr != nil {
		res.Message = e.jsonErr.Error()
		return res
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(e.body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		res.Message = fmt.Sprintf("schema validation error: %v", err)
		return res
	}

	if result.Valid() {
		res.Passed = true
		return res
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	res.Message = fmt.Sprintf("schema validation failed: %s", strings.Join(errs, "; "))
	return res
}

// Evaluate runs one check.
func (e *Evaluator) Evaluate(c *Check) *Result {
	res := &Result{
		Subject:  c.Subject,
		Operator: c.Operator,
		Expected: c.Expected,
	}

	actual, found, err := e.getActualValue(c.Subject)
	if err != nil {
		res.Message = err.Error()
		return res
	}
	res.Actual = actual

	switch c.Operator {
	case "exists":
		res.Passed = found
		if !found {
			res.Message = "expected to exist"
		}
		return res
	case "!exists":
		res.Passed = !found
		if found {
			res.Message = "expected not to exist"
		}
		return res
	}

	if !found {
		res.Message = fmt.Sprintf("%s not found", c.Subject)
		return res
	}

	res.Passed, res.Message = e.compare(actual, c.Operator, c.Expected)
	if c.Operator == "length" {
		res.Actual = computeLength(actual)
	}
	return res
}

func (e *Evaluator) getActualValue(subject string) (any, bool, error) {
	switch {
	case subject == "status":
		return e.result.StatusCode, true, nil
	case subject == "duration":
		return e.result.Duration.Milliseconds(), true, nil
	case strings.HasPrefix(subject, "header "):
		name := strings.TrimSpace(strings.TrimPrefix(subject, "header "))
		for k, v := range e.result.Headers {
			if strings.EqualFold(k, name) {
				return v, true, nil
			}
		}
		return nil, false, nil
	case subject == "body" && e.jsonErr != nil:
		return string(e.body), true, nil
	}

	if e.jsonErr != nil {
		return nil, false, e.jsonErr
	}
	v, ok := e.extractor.Get(subject)
	return v, ok, nil
}

func (e *Evaluator) compare(actual any, op string, expected string) (bool, string) {
	switch op {
	case "==":
		return equals(actual, expected)
	case "!=":
		if passed, _ := equals(actual, expected); passed {
			return false, fmt.Sprintf("expected not to equal %v", expected)
		}
		return true, ""
	case ">", ">=", "<", "<=":
		return compareNumeric(actual, expected, op)
	case "contains":
		return contains(actual, expected)
	case "matches":
		return matches(actual, expected)
	case "length":
		return length(actual, expected)
	case "type":
		return typeCheck(actual, expected)
	default:
		return false, fmt.Sprintf("unknown operator: %v", op)
	}
}

func equals(actual any, expected string) (bool, string) {
	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk && actualNum == expectedNum {
		return true, ""
	}

	if actualStr := stringify(actual); actualStr == expected {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, stringify(actual))
}

func compareNumeric(actual any, expected string, op string) (bool, string) {
	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)

	if !aOk || !eOk {
		return false, fmt.Sprintf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
	}

	var passed bool
	switch op {
	case ">":
		passed = actualNum > expectedNum
	case ">=":
		passed = actualNum >= expectedNum
	case "<":
		passed = actualNum < expectedNum
	case "<=":
		passed = actualNum <= expectedNum
	}

	if passed {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v %s %v", actual, op, expected)
}

func contains(actual any, expected string) (bool, string) {
	if arr, ok := actual.([]any); ok {
		for _, item := range arr {
			if passed, _ := equals(item, expected); passed {
				return true, ""
			}
		}
		return false, fmt.Sprintf("expected array to include %v", expected)
	}
	if strings.Contains(stringify(actual), expected) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to contain '%v'", stringify(actual), expected)
}

func matches(actual any, pattern string) (bool, string) {
	pattern = strings.TrimPrefix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf("invalid regex pattern: %v", err)
	}

	if re.MatchString(stringify(actual)) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to match /%v/", stringify(actual), pattern)
}

// computeLength returns the length of a value, or -1 if length cannot be computed
func computeLength(actual any) int {
	switch v := actual.(type) {
	case string:
		return len(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		return -1
	}
}

func length(actual any, expected string) (bool, string) {
	expectedLen, err := strconv.Atoi(expected)
	if err != nil {
		return false, fmt.Sprintf("expected length must be a number, got %v", expected)
	}

	actualLen := computeLength(actual)
	if actualLen == -1 {
		return false, fmt.Sprintf("cannot get length of %T", actual)
	}

	if actualLen == expectedLen {
		return true, ""
	}
	return false, fmt.Sprintf("expected length %d, got %d", expectedLen, actualLen)
}

func typeCheck(actual any, expected string) (bool, string) {
	var actualType string

	switch actual.(type) {
	case nil:
		actualType = "null"
	case bool:
		actualType = "boolean"
	case float64, int, int64:
		actualType = "number"
	case string:
		actualType = "string"
	case []any:
		actualType = "array"
	case map[string]any:
		actualType = "object"
	default:
		actualType = reflect.TypeOf(actual).String()
	}

	if actualType == expected {
		return true, ""
	}
	return false, fmt.Sprintf("expected type %s, got %s", expected, actualType)
}

func stringify(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case []any, map[string]any:
		data, err := json.Marshal(n)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprintf("%v", v)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
