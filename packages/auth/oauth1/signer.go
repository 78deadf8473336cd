package oauth1

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"github.com/google/uuid"
)

const (
	// SignatureMethod is the only signature method supported.
	SignatureMethod = "HMAC-SHA1"
	// Version is the value sent as oauth_version.
	Version = "1.0"
)

// Protocol parameter names.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamNonce           = "oauth_nonce"
	ParamSignature       = "oauth_signature"
	ParamSignatureMethod = "oauth_signature_method"
	ParamTimestamp       = "oauth_timestamp"
	ParamToken           = "oauth_token"
	ParamVersion         = "oauth_version"
)

// Placement selects where the signed OAuth parameters travel.
type Placement string

const (
	// PlacementHeader sends them only in the Authorization header.
	PlacementHeader Placement = "header"
	// PlacementInline appends them to the query (GET) or form body (POST).
	PlacementInline Placement = "inline"
)

// ParsePlacement parses a placement name; empty means PlacementHeader.
func ParsePlacement(s string) (Placement, error) {
	switch Placement(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlacementHeader:
		return PlacementHeader, nil
	case PlacementInline:
		return PlacementInline, nil
	}
	return "", fmt.Errorf("unknown oauth placement %q (use header or inline)", s)
}

// NewNonce returns 32 random hex characters. It keeps no state and is safe
// for concurrent use.
func NewNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Signer signs requests with one OAuth 1.0a credential set.
type Signer struct {
	creds                 call.Credentials
	nonce                 func() string
	clock                 func() time.Time
	allowEmptyTokenSecret bool
}

type Option func(*Signer)

// WithNonceFunc replaces the nonce generator.
func WithNonceFunc(fn func() string) Option {
	return func(s *Signer) {
		s.nonce = fn
	}
}

// WithClock replaces the clock used for oauth_timestamp.
func WithClock(fn func() time.Time) Option {
	return func(s *Signer) {
		s.clock = fn
	}
}

// WithEmptyTokenSecret accepts credentials whose token secret is empty.
func WithEmptyTokenSecret(allow bool) Option {
	return func(s *Signer) {
		s.allowEmptyTokenSecret = allow
	}
}

// NewSigner validates the credentials and returns a signer for them.
func NewSigner(creds call.Credentials, opts ...Option) (*Signer, error) {
	s := &Signer{
		creds: creds,
		nonce: NewNonce,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if missing := creds.Missing(s.allowEmptyTokenSecret); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", call.ErrInvalidCredentials, strings.Join(missing, ", "))
	}
	return s, nil
}

// Signature is the result of signing one request.
type Signature struct {
	// Params holds the protocol parameters, any OAuth-flagged caller
	// parameters, and oauth_signature.
	Params     call.Parameters
	BaseString string
	Value      string
}

// Header renders the Authorization header value.
func (s *Signature) Header() string {
	params := s.Params.Clone()
	sort.SliceStable(params, func(i, j int) bool {
		return params[i].Name < params[j].Name
	})

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf(`%s="%s"`, Escape(p.Name), Escape(p.Value))
	}
	return "OAuth " + strings.Join(parts, ", ")
}

// Sign signs a request. params is the full caller parameter list: ordinary
// parameters are covered by the signature, OAuth-flagged ones are covered and
// also returned in Signature.Params. Query parameters already present in
// rawURL are covered as well.
func (s *Signer) Sign(method, rawURL string, params call.Parameters) (*Signature, error) {
	baseURL, err := BaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	query, err := queryParameters(rawURL)
	if err != nil {
		return nil, err
	}

	oauthParams := call.Parameters{
		{Name: ParamConsumerKey, Value: s.creds.ConsumerKey},
		{Name: ParamNonce, Value: s.nonce()},
		{Name: ParamSignatureMethod, Value: SignatureMethod},
		{Name: ParamTimestamp, Value: strconv.FormatInt(s.clock().Unix(), 10)},
		{Name: ParamToken, Value: s.creds.AccessToken},
		{Name: ParamVersion, Value: Version},
	}
	for _, p := range params {
		if oauthParams.Index(p.Name) >= 0 || p.Name == ParamSignature {
			return nil, fmt.Errorf("%w: %s is set by the signer", call.ErrInvalidParameter, p.Name)
		}
	}
	for _, p := range params.OAuthOnly() {
		oauthParams = append(oauthParams, call.Parameter{Name: p.Name, Value: p.Value, OAuth: true})
	}

	covered := make(call.Parameters, 0, len(query)+len(params)+len(oauthParams))
	covered = append(covered, query...)
	covered = append(covered, params.Visible()...)
	covered = append(covered, oauthParams...)

	base := BaseString(method, baseURL, covered)
	value := hmacSHA1(SigningKey(s.creds.ConsumerSecret, s.creds.TokenSecret), base)

	signed := append(oauthParams, call.Parameter{Name: ParamSignature, Value: value})
	for i := range signed {
		signed[i].OAuth = true
	}

	return &Signature{
		Params:     signed,
		BaseString: base,
		Value:      value,
	}, nil
}
