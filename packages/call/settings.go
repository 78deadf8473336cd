package call

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// FileExtension is the extension of saved API calls.
const FileExtension = ".api"

// Settings is the persisted form of an API call. Field names are part of the
// file format. The Basic auth password is never persisted.
type Settings struct {
	LastApiUrl              string     `json:"LastApiUrl"`
	LastOAuthAccessToken    string     `json:"LastOAuthAccessToken"`
	LastOAuthConsumerKey    string     `json:"LastOAuthConsumerKey"`
	LastOAuthConsumerSecret string     `json:"LastOAuthConsumerSecret"`
	LastOAuthTokenSecret    string     `json:"LastOAuthTokenSecret"`
	Parameters              Parameters `json:"Parameters"`
	WebAuthUsername         string     `json:"WebAuthUsername"`
	RequestMethod           Method     `json:"RequestMethod"`
}

// NewSettings returns the settings of a blank call.
func NewSettings() *Settings {
	return &Settings{
		RequestMethod: Get,
		Parameters:    Parameters{},
	}
}

// OAuthEnabled reports whether the saved call signs with OAuth. A saved
// consumer key turns signing on.
func (s *Settings) OAuthEnabled() bool {
	return strings.TrimSpace(s.LastOAuthConsumerKey) != ""
}

// BasicAuthEnabled reports whether the saved call uses Basic authentication.
func (s *Settings) BasicAuthEnabled() bool {
	return strings.TrimSpace(s.WebAuthUsername) != ""
}

// Credentials returns the saved OAuth credential set.
func (s *Settings) Credentials() Credentials {
	return Credentials{
		ConsumerKey:    s.LastOAuthConsumerKey,
		ConsumerSecret: s.LastOAuthConsumerSecret,
		AccessToken:    s.LastOAuthAccessToken,
		TokenSecret:    s.LastOAuthTokenSecret,
	}
}

// SetCredentials stores an OAuth credential set.
func (s *Settings) SetCredentials(c Credentials) {
	s.LastOAuthConsumerKey = c.ConsumerKey
	s.LastOAuthConsumerSecret = c.ConsumerSecret
	s.LastOAuthAccessToken = c.AccessToken
	s.LastOAuthTokenSecret = c.TokenSecret
}

// Call converts the settings into a call. OAuth takes precedence over Basic
// auth, as in the editor the file was written by; password is supplied by the
// caller since it is not persisted.
func (s *Settings) Call(password string) *Call {
	c := &Call{
		URL:        s.LastApiUrl,
		Method:     s.RequestMethod,
		Parameters: s.Parameters.Clone(),
	}
	switch {
	case s.OAuthEnabled():
		creds := s.Credentials()
		c.Auth.OAuth = &creds
	case s.BasicAuthEnabled():
		c.Auth.Basic = &BasicAuth{Username: s.WebAuthUsername, Password: password}
	}
	return c
}

// FromCall builds settings from a call. The Basic password is dropped.
func FromCall(c *Call) *Settings {
	s := &Settings{
		LastApiUrl:    c.URL,
		RequestMethod: c.Method,
		Parameters:    c.Parameters.Clone(),
	}
	if s.Parameters == nil {
		s.Parameters = Parameters{}
	}
	if c.Auth.OAuth != nil {
		s.SetCredentials(*c.Auth.OAuth)
	}
	if c.Auth.Basic != nil {
		s.WebAuthUsername = c.Auth.Basic.Username
	}
	return s
}

// DecodeSettings reads settings JSON.
func DecodeSettings(r io.Reader) (*Settings, error) {
	s := NewSettings()
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("not a valid saved API call: %w", err)
	}
	if s.Parameters == nil {
		s.Parameters = Parameters{}
	}
	return s, nil
}

// Encode writes settings JSON.
func (s *Settings) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// LoadSettings reads a saved API call.
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open api call: %w", err)
	}
	defer f.Close()

	return DecodeSettings(f)
}

// Save writes the settings to path, replacing any existing file.
func (s *Settings) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot save api call: %w", err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot save api call: %w", err)
	}
	return f.Close()
}
