// Package handler wires HTTP routes to the repository, media, and auth
// layers.
package handler

import (
	"html/template"
	"strconv"
	"time"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/response"
	"github.com/dmitrymomot/foundation/integration/database/pg"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/repository"
)

type homePageData struct {
	Posts []repository.PostCard
}

type postPageData struct {
	Post  repository.PostDetail
	Media []repository.Media
}

type eventsPageData struct {
	Upcoming []repository.Event
	Past     []repository.Event
}

type eventPageData struct {
	Event repository.Event
	Posts []repository.PostCard
}

// nowString matches the format the events table stores datetimes in.
func nowString() string {
	return time.Now().UTC().Format("2006-01-02T15:04")
}

func homeHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		posts, err := repo.ListPublishedPosts(ctx)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.Template(tmpl, homePageData{Posts: posts})
	}
}

func postHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		post, err := repo.GetPublishedPostBySlug(ctx, ctx.Param("slug"))
		if err != nil {
			if pg.IsNotFoundError(err) {
				return response.Error(response.ErrNotFound)
			}
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		media, err := repo.ListMediaByPost(ctx, post.ID)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		return response.Template(tmpl, postPageData{Post: post, Media: media})
	}
}

func eventsHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		now := nowString()

		upcoming, err := repo.ListUpcomingEvents(ctx, now)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		past, err := repo.ListPastEvents(ctx, now)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		return response.Template(tmpl, eventsPageData{Upcoming: upcoming, Past: past})
	}
}

func eventHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}

		event, err := repo.GetPublishedEvent(ctx, id)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return response.Error(response.ErrNotFound)
			}
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		posts, err := repo.ListPostsByEvent(ctx, id)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		return response.Template(tmpl, eventPageData{Event: event, Posts: posts})
	}
}
