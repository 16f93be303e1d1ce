package auth

import "errors"

var (
	// ErrSecretMissing indicates the session signing secret is not configured.
	// Callers must treat this as a server misconfiguration and fail closed;
	// it is never a reason to grant access.
	ErrSecretMissing = errors.New("session signing secret is not configured")

	// ErrNoSession indicates the request carries no usable session: the cookie
	// is absent, malformed, tampered with, or expired.
	ErrNoSession = errors.New("no valid session")

	// ErrMissingCode indicates the OAuth callback was hit without an
	// authorization code.
	ErrMissingCode = errors.New("missing authorization code")

	// ErrTokenExchange indicates the authorization code could not be exchanged
	// for an access token.
	ErrTokenExchange = errors.New("token exchange failed")

	// ErrUserInfo indicates the user profile could not be fetched from the
	// identity provider.
	ErrUserInfo = errors.New("failed to fetch user info")
)
