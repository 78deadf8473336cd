package env

import (
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/extapi/packages/builtin"
	"github.com/abdul-hamid-achik/extapi/packages/call"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver expands {{ }} references: {{name}} from its variables,
// {{$NAME}} from the process environment and {{fn()}} from the builtin
// functions. Unknown references are left as written.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]string
	funcs     *builtin.Registry
	lookupEnv func(string) (string, bool)
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]string),
		funcs:     builtin.NewRegistry(),
		lookupEnv: os.LookupEnv,
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

func (r *Resolver) GetVariable(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.variables[name]
	return v, ok
}

func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "{{") {
		return input
	}
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		val, ok := r.lookup(match)
		if !ok {
			return match
		}
		return val
	})
}

func (r *Resolver) lookup(match string) (string, bool) {
	expr := strings.TrimSpace(match[2 : len(match)-2])

	if strings.HasPrefix(expr, "$") {
		name := expr[1:]
		if val, ok := r.lookupEnv(name); ok {
			return val, true
		}
		r.warn("unresolved environment variable: $%s", name)
		return "", false
	}

	if builtin.IsCall(expr) {
		val, ok, err := r.funcs.Call(expr)
		if err != nil {
			r.warn("function call %s failed: %v", expr, err)
			return "", false
		}
		if !ok {
			r.warn("unknown function: %s", expr)
		}
		return val, ok
	}

	if val, ok := r.GetVariable(expr); ok {
		return val, true
	}

	r.warn("unresolved variable: %s", expr)
	return "", false
}

// HasUnresolvedVariables reports whether input references a variable the
// resolver cannot supply.
func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.GetUnresolvedVariables(input)) > 0
}

// GetUnresolvedVariables returns the unresolvable references in input,
// without braces, sorted and deduplicated. Function calls are not evaluated.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		switch {
		case strings.HasPrefix(expr, "$"):
			if _, ok := r.lookupEnv(expr[1:]); ok {
				continue
			}
		case builtin.IsCall(expr):
			continue
		default:
			if _, ok := r.GetVariable(expr); ok {
				continue
			}
		}
		seen[expr] = true
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResolveCall returns a copy of c with references expanded in the URL,
// parameter names and values, and credentials.
func (r *Resolver) ResolveCall(c *call.Call) *call.Call {
	out := c.Clone()
	out.URL = r.Resolve(out.URL)
	for i := range out.Parameters {
		out.Parameters[i].Name = r.Resolve(out.Parameters[i].Name)
		out.Parameters[i].Value = r.Resolve(out.Parameters[i].Value)
	}
	if o := out.Auth.OAuth; o != nil {
		o.ConsumerKey = r.Resolve(o.ConsumerKey)
		o.ConsumerSecret = r.Resolve(o.ConsumerSecret)
		o.AccessToken = r.Resolve(o.AccessToken)
		o.TokenSecret = r.Resolve(o.TokenSecret)
	}
	if b := out.Auth.Basic; b != nil {
		b.Username = r.Resolve(b.Username)
		b.Password = r.Resolve(b.Password)
	}
	return out
}

func (r *Resolver) Clone() *Resolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := NewResolver()
	for k, v := range r.variables {
		clone.variables[k] = v
	}
	clone.lookupEnv = r.lookupEnv
	clone.warnFunc = r.warnFunc
	return clone
}
