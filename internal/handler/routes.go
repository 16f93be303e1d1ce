package handler

import (
	"log/slog"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/router"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/auth"
	"github.com/dmitrymomot/uilab/internal/media"
	"github.com/dmitrymomot/uilab/internal/repository"
	"github.com/dmitrymomot/uilab/internal/view"
)

// Deps bundles everything the routes need.
type Deps struct {
	Repo    repository.Querier
	Media   *media.Service
	Google  *auth.Google
	Codec   *auth.Codec
	Views   *view.Templates
	Log     *slog.Logger
	BaseURL string

	// Authenticate resolves the request identity; RequireAdmin gates the
	// back office behind the admin allow-list.
	Authenticate handler.Middleware[*app.Context]
	RequireAdmin handler.Middleware[*app.Context]
}

// Register mounts all application routes.
func Register(r router.Router[*app.Context], d Deps) {
	// Public site
	r.Get("/", homeHandler(d.Repo, d.Views.Home))
	r.Get("/posts/{slug}", postHandler(d.Repo, d.Views.Post))
	r.Get("/events", eventsHandler(d.Repo, d.Views.Events))
	r.Get("/events/{id}", eventHandler(d.Repo, d.Views.Event))
	r.Get("/media/{id}", serveMediaHandler(d.Media))

	// Auth
	r.Get("/auth/login", loginPageHandler(d.Views.Login))
	r.Get("/auth/google", googleRedirectHandler(d.Google, d.BaseURL))
	r.Get("/auth/google/callback", googleCallbackHandler(d.Google, d.Codec, d.BaseURL, d.Log))
	r.Get("/auth/logout", logoutHandler(d.Codec))

	// Admin back office. Reads require only an authenticated session;
	// mutations additionally require the admin allow-list.
	r.Group(func(admin router.Router[*app.Context]) {
		admin.Use(d.Authenticate)

		admin.Get("/admin", dashboardHandler(d.Repo, d.Views.AdminDashboard))

		admin.Get("/admin/posts", adminPostsHandler(d.Repo, d.Views.AdminPosts))
		admin.Get("/admin/posts/new", newPostPageHandler(d.Views.AdminPostForm))
		admin.Get("/admin/posts/{id}/edit", editPostPageHandler(d.Repo, d.Views.AdminPostForm))
		admin.Get("/admin/events", adminEventsHandler(d.Repo, d.Views.AdminEvents))
		admin.Get("/admin/events/new", newEventPageHandler(d.Views.AdminEventForm))
		admin.Get("/admin/events/{id}/edit", editEventPageHandler(d.Repo, d.Views.AdminEventForm))

		mutate := admin.With(d.RequireAdmin)
		mutate.Post("/admin/posts/new", createPostHandler(d.Repo, d.Views.AdminPostForm))
		mutate.Post("/admin/posts/{id}/edit", updatePostHandler(d.Repo, d.Views.AdminPostForm))
		mutate.Delete("/admin/posts/{id}/edit", deletePostHandler(d.Repo))
		mutate.Post("/admin/posts/{id}/media", uploadMediaHandler(d.Media))
		mutate.Post("/admin/posts/{id}/media/{mediaId}/delete", deleteMediaHandler(d.Media))
		mutate.Post("/admin/events/new", createEventHandler(d.Repo, d.Views.AdminEventForm))
		mutate.Post("/admin/events/{id}/edit", updateEventHandler(d.Repo, d.Views.AdminEventForm))
		mutate.Delete("/admin/events/{id}/edit", deleteEventHandler(d.Repo))
	})
}
