package config

const (
	// DefaultTimeoutMs is the request timeout in milliseconds
	DefaultTimeoutMs = 30000
	// DefaultMaxRedirects is the redirect limit
	DefaultMaxRedirects = 10
	// DefaultHistoryFile is the history database name inside the state directory
	DefaultHistoryFile = "history.db"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:               DefaultTimeoutMs,
		FollowRedirects:       BoolPtr(true),
		MaxRedirects:          DefaultMaxRedirects,
		ValidateSSL:           BoolPtr(true),
		OAuthPlacement:        "header",
		AllowEmptyTokenSecret: BoolPtr(false),
		Output:                "console",
		NoColor:               BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() == defaults.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetValidateSSL() == defaults.GetValidateSSL() &&
		c.Proxy == defaults.Proxy &&
		len(c.Headers) == 0 &&
		c.OAuthPlacement == defaults.OAuthPlacement &&
		c.GetAllowEmptyTokenSecret() == defaults.GetAllowEmptyTokenSecret() &&
		c.Output == defaults.Output &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.HistoryFile == defaults.HistoryFile &&
		c.EnvFile == defaults.EnvFile &&
		len(c.Variables) == 0
}
