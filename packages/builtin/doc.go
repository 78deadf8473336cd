// Package builtin provides the functions available inside {{ }} references.
//
// Available functions:
//   - uuid(): random UUID v4
//   - nonce(): 32 random hex characters
//   - now(), date(format): current time, RFC 3339 or Go layout
//   - timestamp(), timestampMs(): Unix time in seconds or milliseconds
//   - random(min, max), randomString(length)
//   - base64(value), base64Decode(value), md5(value), sha256(value)
//   - urlEncode(value), urlDecode(value): RFC 3986 percent-encoding
package builtin
