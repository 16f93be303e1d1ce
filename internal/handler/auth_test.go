package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubGoogle wires a Google client against a local provider that accepts the
// code "good-code" and returns a fixed identity.
func stubGoogle(t *testing.T) *auth.Google {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"stub-access-token","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"admin@example.com","name":"Admin","picture":"https://example.com/p.png"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return auth.NewGoogle("client-id", "client-secret",
		auth.WithGoogleEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}),
		auth.WithUserInfoURL(srv.URL+"/userinfo"),
	)
}

func invoke(t *testing.T, h handler.HandlerFunc[*app.Context], r *http.Request, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	ctx := app.NewContext()(w, r, params)
	require.NoError(t, h(ctx)(w, r))
	return w
}

func TestGoogleRedirectHandler(t *testing.T) {
	t.Parallel()

	google := stubGoogle(t)

	t.Run("explicit base URL wins", func(t *testing.T) {
		t.Parallel()

		h := googleRedirectHandler(google, "https://ui.example.com")
		r := httptest.NewRequest("GET", "/auth/google", nil)
		w := invoke(t, h, r, nil)

		require.Equal(t, http.StatusFound, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "https://ui.example.com/auth/google/callback", loc.Query().Get("redirect_uri"))
	})

	t.Run("falls back to request host", func(t *testing.T) {
		t.Parallel()

		h := googleRedirectHandler(google, "")
		r := httptest.NewRequest("GET", "http://app.local/auth/google", nil)
		w := invoke(t, h, r, nil)

		require.Equal(t, http.StatusFound, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "http://app.local/auth/google/callback", loc.Query().Get("redirect_uri"))
	})
}

func TestGoogleCallbackHandler(t *testing.T) {
	t.Parallel()

	google := stubGoogle(t)
	codec := auth.NewCodec("callback-test-secret")

	t.Run("missing code", func(t *testing.T) {
		t.Parallel()

		h := googleCallbackHandler(google, codec, "", discardLogger())
		r := httptest.NewRequest("GET", "/auth/google/callback", nil)
		w := invoke(t, h, r, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "認証コードがありません", w.Body.String())
	})

	t.Run("rejected code", func(t *testing.T) {
		t.Parallel()

		h := googleCallbackHandler(google, codec, "", discardLogger())
		r := httptest.NewRequest("GET", "/auth/google/callback?code=bad-code", nil)
		w := invoke(t, h, r, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "トークンの取得に失敗しました", w.Body.String())
	})

	t.Run("issues session and redirects to admin", func(t *testing.T) {
		t.Parallel()

		h := googleCallbackHandler(google, codec, "", discardLogger())
		r := httptest.NewRequest("GET", "/auth/google/callback?code=good-code", nil)
		w := invoke(t, h, r, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, auth.CookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)

		session := httptest.NewRequest("GET", "/admin", nil)
		session.AddCookie(cookies[0])
		identity, err := auth.NewCookieResolver(codec).Resolve(session)
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", identity.Email)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Parallel()

	codec := auth.NewCodec("callback-test-secret")
	h := logoutHandler(codec)
	r := httptest.NewRequest("GET", "/auth/logout", nil)
	w := invoke(t, h, r, nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
