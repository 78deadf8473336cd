package call

// Call is the complete input of one API execution.
type Call struct {
	URL        string
	Method     Method
	Parameters Parameters
	Auth       Auth
}

// Clone returns a deep copy, so the engine works on an immutable snapshot of
// what the caller is editing.
func (c *Call) Clone() *Call {
	out := &Call{
		URL:        c.URL,
		Method:     c.Method,
		Parameters: c.Parameters.Clone(),
	}
	if c.Auth.OAuth != nil {
		creds := *c.Auth.OAuth
		out.Auth.OAuth = &creds
	}
	if c.Auth.Basic != nil {
		basic := *c.Auth.Basic
		out.Auth.Basic = &basic
	}
	return out
}
