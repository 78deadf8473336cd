package assertions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/extapi/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResult(statusCode int, headers map[string]string) *runner.Result {
	if headers == nil {
		headers = make(map[string]string)
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	return &runner.Result{
		StatusCode: statusCode,
		Headers:    headers,
		Duration:   100 * time.Millisecond,
	}
}

const userBody = `{"user": {"name": "John", "age": 30, "tags": ["a", "b"]}, "items": [1, 2, 3], "ok": true, "none": null}`

func TestParseCheck(t *testing.T) {
	tests := []struct {
		input    string
		expected *Check
	}{
		{"user.name == John", &Check{"user.name", "==", "John"}},
		{`user.name == "John Smith"`, &Check{"user.name", "==", "John Smith"}},
		{"user.age >= 18", &Check{"user.age", ">=", "18"}},
		{"user.age > 18", &Check{"user.age", ">", "18"}},
		{"status != 500", &Check{"status", "!=", "500"}},
		{"items length 3", &Check{"items", "length", "3"}},
		{"user.id exists", &Check{"user.id", "exists", ""}},
		{"user.id !exists", &Check{"user.id", "!exists", ""}},
		{"header Content-Type contains json", &Check{"header Content-Type", "contains", "json"}},
		{"user.existsFlag == true", &Check{"user.existsFlag", "==", "true"}},
		{"user.name matches /^J/", &Check{"user.name", "matches", "/^J/"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := ParseCheck(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestParseCheck_Errors(t *testing.T) {
	for _, input := range []string{"user.name", "== John", "user.name ==", ""} {
		_, err := ParseCheck(input)
		assert.Error(t, err, input)
	}
}

func TestEvaluator_Checks(t *testing.T) {
	e := NewEvaluator(createResult(200, map[string]string{"X-Rate-Limit": "15"}), []byte(userBody))

	tests := []struct {
		check  string
		passed bool
	}{
		{"user.name == John", true},
		{"user.name == Jane", false},
		{"user.age == 30", true},
		{"user.age == 30.0", true},
		{"user.age != 31", true},
		{"user.age > 18", true},
		{"user.age < 18", false},
		{"user.name > 18", false},
		{"user.name contains oh", true},
		{"user.tags contains b", true},
		{"user.tags contains z", false},
		{"user.name matches /^J.hn$/", true},
		{"items length 3", true},
		{"items[0] == 1", true},
		{"user.tags length 3", false},
		{"user.name exists", true},
		{"user.email exists", false},
		{"user.email !exists", true},
		{"none exists", true},
		{"none type null", true},
		{"ok type boolean", true},
		{"ok == true", true},
		{"items type array", true},
		{"user type object", true},
		{"status == 200", true},
		{"duration < 500", true},
		{"header x-rate-limit == 15", true},
		{"header X-Missing exists", false},
		{"user.missing == x", false},
	}

	for _, tt := range tests {
		t.Run(tt.check, func(t *testing.T) {
			c, err := ParseCheck(tt.check)
			require.NoError(t, err)
			result := e.Evaluate(c)
			assert.Equal(t, tt.passed, result.Passed, result.Message)
			if !tt.passed {
				assert.NotEmpty(t, result.Message)
			}
		})
	}
}

func TestEvaluator_LengthReportsActualLength(t *testing.T) {
	e := NewEvaluator(createResult(200, nil), []byte(userBody))
	result := e.Evaluate(&Check{Subject: "items", Operator: "length", Expected: "2"})

	assert.False(t, result.Passed)
	assert.Equal(t, 3, result.Actual)
	assert.Equal(t, "expected length 2, got 3", result.Message)
}

func TestEvaluator_NonJSONBody(t *testing.T) {
	e := NewEvaluator(createResult(200, map[string]string{"Content-Type": "text/xml"}), []byte("<a/>"))

	result := e.Evaluate(&Check{Subject: "body", Operator: "contains", Expected: "<a"})
	assert.True(t, result.Passed)

	result = e.Evaluate(&Check{Subject: "user.name", Operator: "exists"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "not JSON")

	result = e.Evaluate(&Check{Subject: "status", Operator: "==", Expected: "200"})
	assert.True(t, result.Passed)
}

func TestEvaluate_Status(t *testing.T) {
	res := createResult(404, nil)

	results := Evaluate(res, []byte(`{}`), &Expectations{Status: []int{200}})
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Equal(t, "expected status 200, got 404", results[0].Message)
	assert.False(t, AllPassed(results))

	results = Evaluate(res, []byte(`{}`), &Expectations{Status: []int{200, 404}})
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.True(t, AllPassed(results))
}

func TestEvaluate_Empty(t *testing.T) {
	assert.Nil(t, Evaluate(createResult(200, nil), nil, nil))
	assert.Nil(t, Evaluate(createResult(200, nil), nil, &Expectations{}))
	assert.True(t, AllPassed(nil))
}

func TestEvaluate_Schema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "user.schema.json")
	schema := `{
		"type": "object",
		"required": ["user"],
		"properties": {
			"user": {
				"type": "object",
				"required": ["name", "age"],
				"properties": {
					"name": {"type": "string"},
					"age": {"type": "integer", "minimum": 0}
				}
			}
		}
	}`
	require.NoError(t, os.WriteFile(schemaPath, []byte(schema), 0644))

	t.Run("valid body", func(t *testing.T) {
		results := Evaluate(createResult(200, nil), []byte(userBody), &Expectations{Schema: schemaPath})
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed, results[0].Message)
	})

	t.Run("invalid body", func(t *testing.T) {
		results := Evaluate(createResult(200, nil), []byte(`{"user": {"name": 5}}`), &Expectations{Schema: schemaPath})
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
		assert.Contains(t, results[0].Message, "schema validation failed")
	})

	t.Run("non JSON body", func(t *testing.T) {
		results := Evaluate(createResult(200, nil), []byte(`<user/>`), &Expectations{Schema: schemaPath})
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
		assert.Contains(t, results[0].Message, "not JSON")
	})

	t.Run("missing schema file", func(t *testing.T) {
		results := Evaluate(createResult(200, nil), []byte(userBody), &Expectations{Schema: filepath.Join(dir, "missing.json")})
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
		assert.Contains(t, results[0].Message, "failed to read schema file")
	})
}

func TestEvaluate_All(t *testing.T) {
	checks := []*Check{
		{Subject: "user.name", Operator: "==", Expected: "John"},
		{Subject: "items", Operator: "length", Expected: "3"},
	}
	results := Evaluate(createResult(201, nil), []byte(userBody), &Expectations{
		Status: []int{201},
		Checks: checks,
	})

	require.Len(t, results, 3)
	assert.True(t, AllPassed(results))
	assert.Equal(t, "status", results[0].Subject)
	assert.Equal(t, "user.name", results[1].Subject)
}
