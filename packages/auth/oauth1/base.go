package oauth1

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/call"
)

type pair struct {
	key   string
	value string
}

// BaseURL returns the URL as it appears in the signature base string: scheme
// and host lowercased, default ports dropped, no query or fragment.
func BaseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", call.ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not absolute", call.ErrInvalidURL, rawURL)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	if port := u.Port(); (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		host = strings.TrimSuffix(host, ":"+port)
	}
	host = strings.TrimSuffix(host, ":")

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path, nil
}

// ParameterString encodes, sorts and joins the parameters that are covered by
// the signature. Sorting is by encoded name, then encoded value, byte-wise.
func ParameterString(params call.Parameters) string {
	pairs := make([]pair, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, pair{key: Escape(p.Name), value: Escape(p.Value)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + p.value
	}
	return strings.Join(parts, "&")
}

// BaseString builds the signature base string. params must already contain
// the protocol parameters and any query parameters of the request URL.
func BaseString(method, baseURL string, params call.Parameters) string {
	return strings.Join([]string{
		strings.ToUpper(method),
		Escape(baseURL),
		Escape(ParameterString(params)),
	}, "&")
}

// SigningKey joins the encoded secrets. An empty token secret still leaves
// the trailing '&'.
func SigningKey(consumerSecret, tokenSecret string) string {
	return Escape(consumerSecret) + "&" + Escape(tokenSecret)
}

func hmacSHA1(key, data string) string {
	h := hmac.New(sha1.New, []byte(key))
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// queryParameters returns the decoded query of rawURL in the order it was
// written. Values are covered by the signature.
func queryParameters(rawURL string) (call.Parameters, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", call.ErrInvalidURL, err)
	}
	if u.RawQuery == "" {
		return nil, nil
	}

	var params call.Parameters
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: bad query parameter %q: %v", call.ErrInvalidURL, k, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad query value for %q: %v", call.ErrInvalidURL, key, err)
		}
		params = append(params, call.Parameter{Name: key, Value: value})
	}
	return params, nil
}
