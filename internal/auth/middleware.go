package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/response"
)

type userKey struct{}

// User is the request-scoped authenticated caller. It is derived on every
// request and never persisted.
type User struct {
	Email   string
	Name    string
	Picture string
	IsAdmin bool
}

// Config configures the Authenticate middleware.
type Config[C handler.Context] struct {
	// Resolver resolves the caller's identity (required unless DevMode).
	Resolver Resolver
	// IsAdmin decides whether an email has admin privileges.
	IsAdmin func(email string) bool
	// DevMode, when explicitly enabled, bypasses resolution with a fixed
	// local admin identity. It must never be inferred from an absent secret.
	DevMode bool
	// DevIdentity is the identity synthesized in dev mode.
	DevIdentity Identity
	// LoginURL is where unauthenticated requests are redirected.
	LoginURL string
	// Logger for structured logging (default: discard).
	Logger *slog.Logger
}

// Authenticate resolves the caller's identity and attaches the resulting User
// to the request context. Unauthenticated requests are redirected to the
// login page; a missing signing secret is a server misconfiguration and
// yields a 500, never an open session.
func Authenticate[C handler.Context](cfg Config[C]) handler.Middleware[C] {
	if cfg.LoginURL == "" {
		cfg.LoginURL = "/auth/login"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.IsAdmin == nil {
		cfg.IsAdmin = func(string) bool { return false }
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.DevMode {
				ctx.SetValue(userKey{}, User{
					Email:   cfg.DevIdentity.Email,
					Name:    cfg.DevIdentity.Name,
					Picture: cfg.DevIdentity.Picture,
					IsAdmin: true,
				})
				return next(ctx)
			}

			if cfg.Resolver == nil {
				cfg.Logger.ErrorContext(ctx, "auth middleware: no identity resolver configured")
				return response.Error(response.ErrInternalServerError.
					WithMessage("authentication is not configured"))
			}

			id, err := cfg.Resolver.Resolve(ctx.Request())
			if err != nil {
				if errors.Is(err, ErrSecretMissing) {
					cfg.Logger.ErrorContext(ctx, "auth middleware: session secret is not set")
					return response.Error(response.ErrInternalServerError.
						WithMessage("SESSION_SECRET is not configured"))
				}
				return response.Redirect(cfg.LoginURL)
			}

			ctx.SetValue(userKey{}, User{
				Email:   id.Email,
				Name:    id.Name,
				Picture: id.Picture,
				IsAdmin: cfg.IsAdmin(id.Email),
			})
			return next(ctx)
		}
	}
}

// RequireAdmin rejects authenticated but non-admin callers with 403. It must
// run after Authenticate.
func RequireAdmin[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			user, ok := GetUser(ctx)
			if !ok || !user.IsAdmin {
				return response.StringWithStatus("権限がありません", http.StatusForbidden)
			}
			return next(ctx)
		}
	}
}

// GetUser retrieves the authenticated user from the request context.
func GetUser(ctx handler.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	user, ok := ctx.Value(userKey{}).(User)
	return user, ok
}

// AdminAllowlist builds an admin predicate from a list of emails.
func AdminAllowlist(emails []string) func(string) bool {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}
	return func(email string) bool {
		_, ok := set[email]
		return ok
	}
}
