package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"user": {"name": "John", "age": 30, "admin": false}, "items": [{"id": 1, "tags": ["a", "b"]}, {"id": 2}], "note": null}`

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"user.name", "user.name"},
		{"body.user.name", "user.name"},
		{"$.user.name", "user.name"},
		{"[0].id", "0.id"},
		{"items[0].tags[1]", "items.0.tags.1"},
		{"body", ""},
		{"$", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.path))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"user.name", "John"},
		{"user.age", "30"},
		{"user.admin", "false"},
		{"items[1].id", "2"},
		{"items.#", "2"},
		{"items.0.tags", `["a", "b"]`},
		{"note", "null"},
		{"", sample},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Extract([]byte(sample), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract([]byte(sample), "user.missing")
	assert.ErrorContains(t, err, "not found")

	_, err = Extract([]byte("<xml/>"), "a")
	assert.ErrorContains(t, err, "not JSON")
}

func TestExtractor_Get(t *testing.T) {
	e, err := NewExtractor([]byte(sample))
	require.NoError(t, err)

	v, ok := e.Get("user.age")
	assert.True(t, ok)
	assert.Equal(t, float64(30), v)

	v, ok = e.Get("items.0.tags")
	assert.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v)

	v, ok = e.Get("note")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = e.Get("nope")
	assert.False(t, ok)

	v, ok = e.Get("")
	assert.True(t, ok)
	assert.IsType(t, map[string]any{}, v)
}
