package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/spf13/cobra"
)

// callFlags are the flags that describe a call. Only flags given on the
// command line override what a saved .api file holds.
type callFlags struct {
	url            string
	method         string
	params         []string
	oauthParams    []string
	consumerKey    string
	consumerSecret string
	accessToken    string
	tokenSecret    string
	username       string
	noOAuth        bool
	noBasic        bool
}

func addCallFlags(cmd *cobra.Command, f *callFlags) {
	cmd.Flags().StringVarP(&f.url, "url", "u", "", "API URL")
	cmd.Flags().StringVarP(&f.method, "method", "X", "", "Request method: get, post")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "Parameter as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.oauthParams, "oauth-param", nil, "OAuth protocol parameter as name=value, e.g. oauth_callback (repeatable)")
	cmd.Flags().StringVar(&f.consumerKey, "consumer-key", "", "OAuth consumer key")
	cmd.Flags().StringVar(&f.consumerSecret, "consumer-secret", getEnvString("EXTAPI_CONSUMER_SECRET", ""), "OAuth consumer secret (env: EXTAPI_CONSUMER_SECRET, used when sending, never saved)")
	cmd.Flags().StringVar(&f.accessToken, "access-token", "", "OAuth access token")
	cmd.Flags().StringVar(&f.tokenSecret, "token-secret", getEnvString("EXTAPI_TOKEN_SECRET", ""), "OAuth token secret (env: EXTAPI_TOKEN_SECRET, used when sending, never saved)")
	cmd.Flags().StringVar(&f.username, "username", "", "HTTP Basic auth username")
	cmd.Flags().BoolVar(&f.noOAuth, "no-oauth", false, "Clear saved OAuth credentials")
	cmd.Flags().BoolVar(&f.noBasic, "no-basic", false, "Clear the saved Basic auth username")
}

// apply writes the flags given on the command line into s. Secrets taken
// from the environment are not applied here; see withEnvSecrets.
func (f *callFlags) apply(cmd *cobra.Command, s *call.Settings) error {
	given := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	if f.noOAuth {
		s.SetCredentials(call.Credentials{})
	}
	if f.noBasic {
		s.WebAuthUsername = ""
	}

	if given("url") {
		s.LastApiUrl = strings.TrimSpace(f.url)
	}
	if given("method") {
		m, err := call.ParseMethod(f.method)
		if err != nil {
			return err
		}
		s.RequestMethod = m
	}

	for _, raw := range f.params {
		p, err := call.ParseParameter(raw)
		if err != nil {
			return err
		}
		s.Parameters = s.Parameters.Set(p)
	}
	for _, raw := range f.oauthParams {
		p, err := call.ParseParameter(raw)
		if err != nil {
			return err
		}
		p.OAuth = true
		s.Parameters = s.Parameters.Set(p)
	}

	if given("consumer-key") {
		s.LastOAuthConsumerKey = f.consumerKey
	}
	if given("consumer-secret") {
		s.LastOAuthConsumerSecret = f.consumerSecret
	}
	if given("access-token") {
		s.LastOAuthAccessToken = f.accessToken
	}
	if given("token-secret") {
		s.LastOAuthTokenSecret = f.tokenSecret
	}
	if given("username") {
		s.WebAuthUsername = f.username
	}
	return nil
}

// withEnvSecrets returns a copy of s for sending, with empty OAuth secrets
// filled from EXTAPI_CONSUMER_SECRET and EXTAPI_TOKEN_SECRET. s itself is not
// changed, so the environment never ends up in a saved file.
func (f *callFlags) withEnvSecrets(cmd *cobra.Command, s *call.Settings) *call.Settings {
	out := *s
	if f.noOAuth || !s.OAuthEnabled() {
		return &out
	}
	fromEnv := func(name, value string) string {
		fl := cmd.Flags().Lookup(name)
		if fl == nil || fl.Changed {
			return ""
		}
		return value
	}
	if out.LastOAuthConsumerSecret == "" {
		out.LastOAuthConsumerSecret = fromEnv("consumer-secret", f.consumerSecret)
	}
	if out.LastOAuthTokenSecret == "" {
		out.LastOAuthTokenSecret = fromEnv("token-secret", f.tokenSecret)
	}
	return &out
}

// apiPath adds the .api extension when the name has none.
func apiPath(name string) string {
	if filepath.Ext(name) == "" {
		return name + call.FileExtension
	}
	return name
}

// openCall loads a saved call. Read failures are config errors, decode
// failures parse errors.
func openCall(path string) (*call.Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, configError(fmt.Errorf("cannot open api call: %w", err))
	}
	defer f.Close()

	s, err := call.DecodeSettings(f)
	if err != nil {
		return nil, parseError(fmt.Errorf("%s: %w", path, err))
	}
	return s, nil
}
