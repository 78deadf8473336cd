package call

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSettings() *Settings {
	return &Settings{
		LastApiUrl:              "https://api.example.com/1/statuses/update.json",
		LastOAuthAccessToken:    "token",
		LastOAuthConsumerKey:    "key",
		LastOAuthConsumerSecret: "secret",
		LastOAuthTokenSecret:    "token-secret",
		Parameters: Parameters{
			{Name: "status", Value: "Hello Ladies + Gentlemen"},
			{Name: "oauth_callback", Value: "oob", OAuth: true},
		},
		WebAuthUsername: "",
		RequestMethod:   Post,
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	original := sampleSettings()

	var buf bytes.Buffer
	require.NoError(t, original.Encode(&buf))

	decoded, err := DecodeSettings(&buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSettings_FileFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleSettings().Encode(&buf))

	out := buf.String()
	for _, field := range []string{
		`"LastApiUrl"`, `"LastOAuthAccessToken"`, `"LastOAuthConsumerKey"`,
		`"LastOAuthConsumerSecret"`, `"LastOAuthTokenSecret"`, `"Parameters"`,
		`"WebAuthUsername"`, `"RequestMethod": "Post"`,
	} {
		assert.Contains(t, out, field)
	}
}

func TestDecodeSettings_LegacyFile(t *testing.T) {
	legacy := `{"LastApiUrl":"http://localhost/api","Parameters":[{"name":"a","value":"1"}],"RequestMethod":1}`

	s, err := DecodeSettings(strings.NewReader(legacy))
	require.NoError(t, err)
	assert.Equal(t, Post, s.RequestMethod)
	assert.Equal(t, Parameters{{Name: "a", Value: "1"}}, s.Parameters)
	assert.False(t, s.OAuthEnabled())
}

func TestDecodeSettings_Invalid(t *testing.T) {
	_, err := DecodeSettings(strings.NewReader("not json"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid saved API call")
}

func TestSettings_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "call"+FileExtension)
	original := sampleSettings()

	require.NoError(t, original.Save(path))
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	_, err = LoadSettings(filepath.Join(t.TempDir(), "missing.api"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSettings_Call(t *testing.T) {
	t.Run("oauth wins when consumer key is set", func(t *testing.T) {
		s := sampleSettings()
		s.WebAuthUsername = "user"
		c := s.Call("pw")
		assert.Equal(t, AuthOAuth1, c.Auth.Mode())
		assert.Nil(t, c.Auth.Basic)
		assert.Equal(t, "secret", c.Auth.OAuth.ConsumerSecret)
	})

	t.Run("basic auth takes the supplied password", func(t *testing.T) {
		s := NewSettings()
		s.WebAuthUsername = "user"
		c := s.Call("pw")
		require.NotNil(t, c.Auth.Basic)
		assert.Equal(t, BasicAuth{Username: "user", Password: "pw"}, *c.Auth.Basic)
	})

	t.Run("no auth", func(t *testing.T) {
		c := NewSettings().Call("")
		assert.Equal(t, AuthNone, c.Auth.Mode())
		assert.Equal(t, Get, c.Method)
	})
}

func TestFromCall_DropsPassword(t *testing.T) {
	c := &Call{
		URL:    "http://localhost",
		Method: Get,
		Auth:   Auth{Basic: &BasicAuth{Username: "user", Password: "secret"}},
	}
	s := FromCall(c)
	assert.Equal(t, "user", s.WebAuthUsername)

	var buf bytes.Buffer
	require.NoError(t, s.Encode(&buf))
	assert.NotContains(t, buf.String(), "secret")
}

func TestCall_Clone(t *testing.T) {
	c := &Call{
		URL:        "http://localhost",
		Method:     Post,
		Parameters: Parameters{{Name: "a", Value: "1"}},
		Auth:       Auth{OAuth: &Credentials{ConsumerKey: "k"}},
	}
	clone := c.Clone()
	clone.Parameters[0].Value = "2"
	clone.Auth.OAuth.ConsumerKey = "changed"

	assert.Equal(t, "1", c.Parameters[0].Value)
	assert.Equal(t, "k", c.Auth.OAuth.ConsumerKey)
}
