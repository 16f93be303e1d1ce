package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Google performs the Google authorization-code flow: it builds the consent
// URL, exchanges the callback code for an access token, and fetches the
// caller's profile. The redirect URI is derived per request from the origin
// so the same deployment works behind any hostname.
type Google struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	userInfoURL  string
	client       *http.Client
}

// GoogleOption configures the Google exchange.
type GoogleOption func(*Google)

// WithGoogleEndpoint overrides the OAuth endpoint. Used in tests to point the
// exchange at a stub provider.
func WithGoogleEndpoint(endpoint oauth2.Endpoint) GoogleOption {
	return func(g *Google) {
		g.endpoint = endpoint
	}
}

// WithUserInfoURL overrides the userinfo endpoint. Used in tests.
func WithUserInfoURL(url string) GoogleOption {
	return func(g *Google) {
		if url != "" {
			g.userInfoURL = url
		}
	}
}

// WithGoogleHTTPClient sets the HTTP client for provider calls. Timeouts on
// outbound calls are this client's responsibility.
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(g *Google) {
		if client != nil {
			g.client = client
		}
	}
}

// NewGoogle creates the Google OAuth exchange.
func NewGoogle(clientID, clientSecret string, opts ...GoogleOption) *Google {
	g := &Google{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     google.Endpoint,
		userInfoURL:  defaultUserInfoURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Google) config(origin string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		RedirectURL:  origin + "/auth/google/callback",
		Endpoint:     g.endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// AuthCodeURL builds the provider's authorization URL for the given request
// origin.
func (g *Google) AuthCodeURL(origin string) string {
	return g.config(origin).AuthCodeURL("",
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades the authorization code for an access token and fetches the
// caller's profile. Provider failures are surfaced immediately and the flow
// is never retried: an authorization code is single-use and a second exchange
// would fail at the provider anyway.
func (g *Google) Exchange(ctx context.Context, code, origin string) (Identity, error) {
	if code == "" {
		return Identity{}, ErrMissingCode
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)

	token, err := g.config(origin).Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return Identity{}, fmt.Errorf("%w: %s", ErrTokenExchange, string(rerr.Body))
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	return g.fetchUserInfo(ctx, token.AccessToken)
}

func (g *Google) fetchUserInfo(ctx context.Context, accessToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Identity{}, fmt.Errorf("%w: status %d", ErrUserInfo, resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	return id, nil
}
