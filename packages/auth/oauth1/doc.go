// Package oauth1 signs HTTP requests with OAuth 1.0a (HMAC-SHA1).
//
// Signing follows RFC 5849: protocol and request parameters are percent-encoded
// per RFC 3986, sorted, and joined into the signature base string together
// with the method and the normalized URL. The base string is signed with
// HMAC-SHA1 keyed by the consumer and token secrets.
//
// Nonce and clock are injectable so signatures can be reproduced in tests.
package oauth1
