package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/logger"
	"github.com/dmitrymomot/foundation/core/response"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/auth"
)

// origin returns the scheme+host the OAuth redirect URL is built from. An
// explicit base URL wins; otherwise it is derived from the request.
func origin(ctx *app.Context, baseURL string) string {
	if baseURL != "" {
		return baseURL
	}
	r := ctx.Request()
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host
}

func loginPageHandler(tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		return response.Template(tmpl, nil)
	}
}

func googleRedirectHandler(google *auth.Google, baseURL string) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		return response.Redirect(google.AuthCodeURL(origin(ctx, baseURL)))
	}
}

func googleCallbackHandler(google *auth.Google, codec *auth.Codec, baseURL string, log *slog.Logger) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		code := ctx.Request().URL.Query().Get("code")

		identity, err := google.Exchange(ctx, code, origin(ctx, baseURL))
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrMissingCode):
			return response.StringWithStatus("認証コードがありません", http.StatusBadRequest)
		case errors.Is(err, auth.ErrTokenExchange):
			log.ErrorContext(ctx, "token exchange failed", logger.Component("auth"), logger.Error(err))
			return response.StringWithStatus("トークンの取得に失敗しました", http.StatusInternalServerError)
		case errors.Is(err, auth.ErrUserInfo):
			log.ErrorContext(ctx, "userinfo fetch failed", logger.Component("auth"), logger.Error(err))
			return response.StringWithStatus("ユーザー情報の取得に失敗しました", http.StatusInternalServerError)
		default:
			log.ErrorContext(ctx, "oauth callback failed", logger.Component("auth"), logger.Error(err))
			return response.Error(response.ErrInternalServerError)
		}

		cookie, err := codec.Issue(identity)
		if err != nil {
			log.ErrorContext(ctx, "session issue failed", logger.Component("auth"), logger.Error(err))
			return response.Error(response.ErrInternalServerError)
		}

		http.SetCookie(ctx.ResponseWriter(), cookie)
		return response.Redirect("/admin")
	}
}

func logoutHandler(codec *auth.Codec) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		http.SetCookie(ctx.ResponseWriter(), codec.Clear())
		return response.Redirect("/")
	}
}
