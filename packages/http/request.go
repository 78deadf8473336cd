package http

import (
	"encoding/base64"
	"fmt"
	neturl "net/url"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/auth/oauth1"
	"github.com/abdul-hamid-achik/extapi/packages/call"
)

const formContentType = "application/x-www-form-urlencoded"

// Request is a fully built request, ready to send.
type Request struct {
	Method  string
	URL     string
	BaseURL string
	Headers map[string]string
	Body    string

	// Params are the parameters sent in the query or body, in order.
	Params    call.Parameters
	Signature *oauth1.Signature
	AuthMode  call.AuthMode
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		BaseURL: requestURL,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

// BuildOption configures BuildRequest.
type BuildOption func(*buildOptions)

type buildOptions struct {
	placement     oauth1.Placement
	signerOptions []oauth1.Option
}

// WithPlacement selects where signed OAuth parameters are sent.
func WithPlacement(p oauth1.Placement) BuildOption {
	return func(o *buildOptions) {
		o.placement = p
	}
}

// WithSignerOptions passes options to the OAuth signer.
func WithSignerOptions(opts ...oauth1.Option) BuildOption {
	return func(o *buildOptions) {
		o.signerOptions = append(o.signerOptions, opts...)
	}
}

// BuildRequest turns a call into a request. All validation happens here,
// before any network I/O: the URL, the method, the parameters and the
// authentication settings.
func BuildRequest(c *call.Call, opts ...BuildOption) (*Request, error) {
	o := &buildOptions{placement: oauth1.PlacementHeader}
	for _, opt := range opts {
		opt(o)
	}

	if err := ValidateURL(c.URL); err != nil {
		return nil, err
	}
	if !c.Method.Valid() {
		return nil, call.ErrNoMethod
	}
	if err := c.Parameters.Validate(); err != nil {
		return nil, err
	}
	if err := c.Auth.Validate(); err != nil {
		return nil, err
	}

	r := NewRequest(c.Method.HTTPMethod(), c.URL)
	r.Params = c.Parameters.Visible()
	r.AuthMode = c.Auth.Mode()

	if err := r.applyAuth(c, o); err != nil {
		return nil, err
	}

	switch c.Method {
	case call.Get:
		r.URL = AppendQuery(c.URL, r.Params)
	case call.Post:
		r.SetBody(EncodeParams(r.Params))
		r.SetHeader("Content-Type", formContentType)
	}

	return r, nil
}

func (r *Request) applyAuth(c *call.Call, o *buildOptions) error {
	switch r.AuthMode {
	case call.AuthOAuth1:
		signer, err := oauth1.NewSigner(*c.Auth.OAuth, o.signerOptions...)
		if err != nil {
			return err
		}
		sig, err := signer.Sign(r.Method, c.URL, c.Parameters)
		if err != nil {
			return err
		}
		r.Signature = sig

		if o.placement == oauth1.PlacementInline {
			r.Params = append(r.Params, sig.Params...)
		} else {
			r.SetHeader("Authorization", sig.Header())
		}
	case call.AuthBasic:
		creds := c.Auth.Basic.Username + ":" + c.Auth.Basic.Password
		encoded := base64.StdEncoding.EncodeToString([]byte(creds))
		r.SetHeader("Authorization", "Basic "+encoded)
	}
	return nil
}

// EncodeParams joins parameters as name=value pairs in order, percent-encoded
// with the same rules the OAuth signature uses.
func EncodeParams(params call.Parameters) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = oauth1.Escape(p.Name) + "=" + oauth1.Escape(p.Value)
	}
	return strings.Join(parts, "&")
}

// AppendQuery adds params to the query of rawURL, keeping any query it
// already has.
func AppendQuery(rawURL string, params call.Parameters) string {
	if len(params) == 0 {
		return rawURL
	}

	base, fragment, hasFragment := strings.Cut(rawURL, "#")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
		if strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&") {
			sep = ""
		}
	}

	out := base + sep + EncodeParams(params)
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme.
// Every failure wraps call.ErrInvalidURL.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%w: empty URL", call.ErrInvalidURL)
	}

	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", call.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported URL scheme %q (only http and https are allowed)", call.ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: URL must have a host", call.ErrInvalidURL)
	}

	return nil
}
