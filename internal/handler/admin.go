package handler

import (
	"html/template"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/response"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/auth"
	"github.com/dmitrymomot/uilab/internal/repository"
)

// recentPostsLimit bounds the dashboard's recent-posts list.
const recentPostsLimit = 5

type dashboardData struct {
	UserEmail string
	Stats     repository.PostStats
	Recent    []repository.PostSummary
}

func userEmail(ctx *app.Context) string {
	user, _ := auth.GetUser(ctx)
	return user.Email
}

func dashboardHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		stats, err := repo.PostStats(ctx)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		recent, err := repo.RecentPosts(ctx, recentPostsLimit)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.Template(tmpl, dashboardData{
			UserEmail: userEmail(ctx),
			Stats:     stats,
			Recent:    recent,
		})
	}
}
