package call

import (
	"fmt"
	"strings"
)

// Parameter is a single query/body parameter. Parameters flagged OAuth are
// OAuth protocol fragments (oauth_callback, oauth_verifier, ...) that take part
// in signing but are not sent as ordinary query/body parameters.
type Parameter struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
	OAuth bool   `json:"IsOAuth,omitempty"`
}

func (p Parameter) String() string {
	if p.OAuth {
		return fmt.Sprintf("%s=%s (oauth)", p.Name, p.Value)
	}
	return p.Name + "=" + p.Value
}

// ParseParameter parses a "name=value" pair. The value may be empty or
// contain further '=' characters.
func ParseParameter(s string) (Parameter, error) {
	name, value, found := strings.Cut(s, "=")
	if !found {
		return Parameter{}, fmt.Errorf("%w: %q is not in name=value form", ErrInvalidParameter, s)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Parameter{}, fmt.Errorf("%w: empty name in %q", ErrInvalidParameter, s)
	}
	return Parameter{Name: name, Value: value}, nil
}

// Parameters is an ordered parameter list. Parameters are identified by name.
type Parameters []Parameter

// Index returns the position of the parameter with the given name, or -1.
func (ps Parameters) Index(name string) int {
	for i, p := range ps {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the parameter with the given name.
func (ps Parameters) Get(name string) (Parameter, bool) {
	if i := ps.Index(name); i >= 0 {
		return ps[i], true
	}
	return Parameter{}, false
}

// Set replaces the parameter with the same name in place, or appends it.
func (ps Parameters) Set(p Parameter) Parameters {
	out := ps.Clone()
	if i := out.Index(p.Name); i >= 0 {
		out[i] = p
		return out
	}
	return append(out, p)
}

// Remove drops the parameter with the given name. The second result reports
// whether anything was removed.
func (ps Parameters) Remove(name string) (Parameters, bool) {
	i := ps.Index(name)
	if i < 0 {
		return ps.Clone(), false
	}
	out := make(Parameters, 0, len(ps)-1)
	out = append(out, ps[:i]...)
	out = append(out, ps[i+1:]...)
	return out, true
}

// Clone returns a copy that shares nothing with ps.
func (ps Parameters) Clone() Parameters {
	if ps == nil {
		return nil
	}
	out := make(Parameters, len(ps))
	copy(out, ps)
	return out
}

// Validate rejects empty and duplicate names.
func (ps Parameters) Validate() error {
	seen := make(map[string]bool, len(ps))
	for i, p := range ps {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: parameter %d has an empty name", ErrInvalidParameter, i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidParameter, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Visible returns the parameters sent as query or body values, in order.
func (ps Parameters) Visible() Parameters {
	var out Parameters
	for _, p := range ps {
		if !p.OAuth {
			out = append(out, p)
		}
	}
	return out
}

// OAuthOnly returns the parameters flagged as OAuth protocol fragments.
func (ps Parameters) OAuthOnly() Parameters {
	var out Parameters
	for _, p := range ps {
		if p.OAuth {
			out = append(out, p)
		}
	}
	return out
}
