package call

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentials_Validate(t *testing.T) {
	full := Credentials{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		AccessToken:    "token",
		TokenSecret:    "token-secret",
	}
	assert.NoError(t, full.Validate())

	tests := []struct {
		name    string
		mutate  func(c *Credentials)
		missing string
	}{
		{"consumer key", func(c *Credentials) { c.ConsumerKey = "" }, "consumer key"},
		{"consumer secret", func(c *Credentials) { c.ConsumerSecret = "" }, "consumer secret"},
		{"access token", func(c *Credentials) { c.AccessToken = " " }, "access token"},
		{"token secret", func(c *Credentials) { c.TokenSecret = "" }, "token secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := full
			tt.mutate(&c)
			err := c.Validate()
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestCredentials_MissingAllowsEmptyTokenSecret(t *testing.T) {
	c := Credentials{ConsumerKey: "k", ConsumerSecret: "s", AccessToken: "t"}
	assert.Empty(t, c.Missing(true))
	assert.Equal(t, []string{"token secret"}, c.Missing(false))
}

func TestAuth_Mode(t *testing.T) {
	assert.Equal(t, AuthNone, Auth{}.Mode())
	assert.Equal(t, AuthBasic, Auth{Basic: &BasicAuth{Username: "u"}}.Mode())
	assert.Equal(t, AuthOAuth1, Auth{OAuth: &Credentials{}}.Mode())

	both := Auth{OAuth: &Credentials{}, Basic: &BasicAuth{}}
	assert.ErrorIs(t, both.Validate(), ErrConflictingAuth)
	assert.NoError(t, Auth{}.Validate())
}
