package oauth1

import (
	"testing"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterString_NormalizationExample(t *testing.T) {
	params := call.Parameters{
		{Name: "b5", Value: "=%3D"},
		{Name: "a3", Value: "a"},
		{Name: "c@", Value: ""},
		{Name: "a2", Value: "r b"},
		{Name: "oauth_consumer_key", Value: "9djdj82h48djs9d2"},
		{Name: "oauth_token", Value: "kkk9d7dh3k39sjv7"},
		{Name: "oauth_signature_method", Value: "HMAC-SHA1"},
		{Name: "oauth_timestamp", Value: "137131201"},
		{Name: "oauth_nonce", Value: "7d8f3e4a"},
		{Name: "c2", Value: ""},
		{Name: "a3", Value: "2 q"},
	}

	expected := "a2=r%20b&a3=2%20q&a3=a&b5=%3D%253D&c%40=&c2=" +
		"&oauth_consumer_key=9djdj82h48djs9d2&oauth_nonce=7d8f3e4a" +
		"&oauth_signature_method=HMAC-SHA1&oauth_timestamp=137131201" +
		"&oauth_token=kkk9d7dh3k39sjv7"
	assert.Equal(t, expected, ParameterString(params))
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://api.example.com/1/statuses/update.json", "https://api.example.com/1/statuses/update.json"},
		{"HTTP://Example.COM:80/r%20v/X?id=123", "http://example.com/r%20v/X"},
		{"https://www.example.net:8080/?q=1", "https://www.example.net:8080/"},
		{"https://example.com:443", "https://example.com/"},
		{"http://example.com/path#frag", "http://example.com/path"},
		{"http://[::1]:8080/x", "http://[::1]:8080/x"},
		{"https://[2001:DB8::1]/r", "https://[2001:db8::1]/r"},
		{"https://[2001:db8::1]:443/r", "https://[2001:db8::1]/r"},
		{"http://example.com:/x", "http://example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := BaseURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := BaseURL("/relative/only")
	assert.ErrorIs(t, err, call.ErrInvalidURL)
}

func TestSigningKey(t *testing.T) {
	assert.Equal(t, "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WK&LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2oDpnva10",
		SigningKey("kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WK", "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2oDpnva10"))
	assert.Equal(t, "a%26b&", SigningKey("a&b", ""))
}

func TestQueryParameters(t *testing.T) {
	params, err := queryParameters("https://example.com/?b=2&a=x+y&flag")
	require.NoError(t, err)
	assert.Equal(t, call.Parameters{
		{Name: "b", Value: "2"},
		{Name: "a", Value: "x y"},
		{Name: "flag", Value: ""},
	}, params)
}
