// Package auth implements the session and authentication layer: an HMAC
// signer, a stateless signed-cookie session codec, pluggable identity
// resolvers, request middleware, and the Google OAuth exchange.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Sign computes an HMAC-SHA256 signature over payload keyed by secret and
// returns it as standard base64. The result is deterministic: the same
// payload and secret always produce the same signature.
func Sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature for payload and compares it against the
// provided one in constant time. It fails closed: any mismatch, including an
// empty secret or signature, returns false.
func Verify(payload, signature, secret string) bool {
	expected := Sign(payload, secret)
	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}
