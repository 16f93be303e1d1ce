package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	// SessionTTL is how long an issued session stays valid.
	SessionTTL = 30 * 24 * time.Hour
)

// Identity is the profile information a resolver or the OAuth exchange
// produces for the caller. It carries no authorization data.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Payload is the session record embedded in the signed cookie. It is created
// once at login, never mutated, and lives entirely client-side; the server
// keeps no session state.
type Payload struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Exp     int64  `json:"exp"`
}

// Codec encodes and decodes session payloads to and from the session cookie.
// The cookie value is base64(JSON(payload)) + "." + HMAC-SHA256 signature
// over the encoded payload.
type Codec struct {
	secret string
	now    func() time.Time
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithClock overrides the codec's time source. Used in tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec creates a session codec with the given signing secret. An empty
// secret is allowed at construction time so the application can start and
// report the misconfiguration per request; Issue and Resolve fail closed
// with ErrSecretMissing.
func NewCodec(secret string, opts ...CodecOption) *Codec {
	c := &Codec{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue builds a session cookie for the given identity, valid for SessionTTL.
func (c *Codec) Issue(id Identity) (*http.Cookie, error) {
	if c.secret == "" {
		return nil, ErrSecretMissing
	}

	payload := Payload{
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.Picture,
		Exp:     c.now().Add(SessionTTL).Unix(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	value := encoded + "." + Sign(encoded, c.secret)

	return c.cookie(value, int(SessionTTL.Seconds())), nil
}

// Resolve extracts and validates the session payload from the request cookie.
// Every failure mode short of a missing secret degrades to (nil, ErrNoSession):
// absent cookie, malformed value, signature mismatch, undecodable payload, or
// an expiry in the past.
func (c *Codec) Resolve(r *http.Request) (*Payload, error) {
	if c.secret == "" {
		return nil, ErrSecretMissing
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	// The encoded payload is standard base64 and never contains a dot, so the
	// first dot always separates payload from signature. Cut rather than Split
	// keeps a signature containing stray dots intact.
	encoded, signature, ok := strings.Cut(cookie.Value, ".")
	if !ok || encoded == "" || signature == "" {
		return nil, ErrNoSession
	}

	if !Verify(encoded, signature, c.secret) {
		return nil, ErrNoSession
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrNoSession
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrNoSession
	}

	if payload.Exp < c.now().Unix() {
		return nil, ErrNoSession
	}

	return &payload, nil
}

// Clear returns a cookie that expires the session immediately. It carries the
// same name, path, and flags as an issued cookie so browsers reliably drop it.
func (c *Codec) Clear() *http.Cookie {
	return c.cookie("", -1)
}

func (c *Codec) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
