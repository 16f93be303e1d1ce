package app

import (
	"github.com/dmitrymomot/foundation/core/server"
	"github.com/dmitrymomot/foundation/integration/database/pg"

	"github.com/dmitrymomot/uilab/internal/storage"
)

// AuthMode selects how an admin identity is resolved on each request.
type AuthMode string

const (
	// AuthModeCookie resolves identity from the signed session cookie set by
	// the Google OAuth flow.
	AuthModeCookie AuthMode = "cookie"
	// AuthModeAccessHeader trusts the identity asserted by an access proxy
	// in front of the app.
	AuthModeAccessHeader AuthMode = "cf-access"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"uilab"`

	// DevMode skips authentication entirely and treats every request as a
	// local admin. Never enable in production.
	DevMode bool `env:"DEV_MODE" envDefault:"false"`

	AuthMode AuthMode `env:"AUTH_MODE" envDefault:"cookie"`

	// SessionSecret signs session cookies. Leaving it empty makes every
	// admin route fail closed with a 500.
	SessionSecret string `env:"SESSION_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// AdminEmails is the allow-list of Google accounts permitted into the
	// back office.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// BaseURL overrides the origin used to build the OAuth redirect URL.
	// When empty the origin is derived from the incoming request.
	BaseURL string `env:"BASE_URL"`

	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"internal/view/templates"`

	DB      pg.Config
	Server  server.Config
	Storage storage.Config
}
