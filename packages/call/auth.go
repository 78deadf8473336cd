package call

import (
	"fmt"
	"strings"
)

// Credentials is the OAuth 1.0a credential set used to sign a call.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	TokenSecret    string
}

// Missing returns the names of the empty fields. When allowEmptyTokenSecret is
// set, an empty TokenSecret is not reported.
func (c Credentials) Missing(allowEmptyTokenSecret bool) []string {
	var missing []string
	if strings.TrimSpace(c.ConsumerKey) == "" {
		missing = append(missing, "consumer key")
	}
	if strings.TrimSpace(c.ConsumerSecret) == "" {
		missing = append(missing, "consumer secret")
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		missing = append(missing, "access token")
	}
	if !allowEmptyTokenSecret && strings.TrimSpace(c.TokenSecret) == "" {
		missing = append(missing, "token secret")
	}
	return missing
}

// Validate requires all four fields.
func (c Credentials) Validate() error {
	if missing := c.Missing(false); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// BasicAuth holds HTTP Basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// AuthMode identifies how a call is authenticated.
type AuthMode int

const (
	AuthNone AuthMode = iota
	AuthBasic
	AuthOAuth1
)

func (m AuthMode) String() string {
	switch m {
	case AuthBasic:
		return "basic"
	case AuthOAuth1:
		return "oauth1"
	}
	return "none"
}

// Auth selects at most one authentication mode for a call.
type Auth struct {
	OAuth *Credentials
	Basic *BasicAuth
}

// Mode reports the active mode. A call with both modes set is invalid; Mode
// reports OAuth for it and Validate rejects it.
func (a Auth) Mode() AuthMode {
	switch {
	case a.OAuth != nil:
		return AuthOAuth1
	case a.Basic != nil:
		return AuthBasic
	}
	return AuthNone
}

// Validate checks that at most one mode is active. Credential completeness is
// checked by the signer, which knows whether an empty token secret is allowed.
func (a Auth) Validate() error {
	if a.OAuth != nil && a.Basic != nil {
		return ErrConflictingAuth
	}
	return nil
}
