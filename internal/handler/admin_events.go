package handler

import (
	"html/template"
	"strconv"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/response"
	"github.com/dmitrymomot/foundation/integration/database/pg"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/repository"
)

// EventForm carries the event editor's fields.
type EventForm struct {
	Title       string `form:"title" sanitize:"trim" validate:"required"`
	ConnpassURL string `form:"connpass_url" sanitize:"trim"`
	Description string `form:"description"`
	StartedAt   string `form:"started_at"`
	EndedAt     string `form:"ended_at"`
	Place       string `form:"place" sanitize:"trim"`
	Address     string `form:"address" sanitize:"trim"`
	LimitCount  int32  `form:"limit_count"`
	Status      string `form:"status" validate:"required;in:draft,published"`
}

type adminEventsData struct {
	UserEmail string
	Events    []repository.Event
}

type eventFormData struct {
	UserEmail string
	IsEdit    bool
	EventID   int64
	Form      EventForm
	Error     string
}

func eventToForm(e repository.Event) EventForm {
	return EventForm{
		Title:       e.Title,
		ConnpassURL: e.ConnpassURL,
		Description: e.Description,
		StartedAt:   e.StartedAt,
		EndedAt:     e.EndedAt,
		Place:       e.Place,
		Address:     e.Address,
		LimitCount:  e.LimitCount,
		Status:      e.Status,
	}
}

func adminEventsHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		events, err := repo.ListEvents(ctx)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.Template(tmpl, adminEventsData{
			UserEmail: userEmail(ctx),
			Events:    events,
		})
	}
}

func newEventPageHandler(tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		return response.Template(tmpl, eventFormData{UserEmail: userEmail(ctx)})
	}
}

func createEventHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		var form EventForm
		if err := ctx.Bind(&form); err != nil {
			return response.Template(tmpl, eventFormData{
				UserEmail: userEmail(ctx),
				Form:      form,
				Error:     bindErrorMessage(err),
			})
		}

		_, err := repo.CreateEvent(ctx, repository.CreateEventParams{
			Title:       form.Title,
			ConnpassURL: form.ConnpassURL,
			Description: form.Description,
			StartedAt:   form.StartedAt,
			EndedAt:     form.EndedAt,
			Place:       form.Place,
			Address:     form.Address,
			LimitCount:  form.LimitCount,
			Status:      form.Status,
		})
		if err != nil {
			return response.Template(tmpl, eventFormData{
				UserEmail: userEmail(ctx),
				Form:      form,
				Error:     msgSaveFailed,
			})
		}

		return response.Redirect("/admin/events")
	}
}

func editEventPageHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}

		event, err := repo.GetEvent(ctx, id)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return response.Error(response.ErrNotFound)
			}
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		return response.Template(tmpl, eventFormData{
			UserEmail: userEmail(ctx),
			IsEdit:    true,
			EventID:   event.ID,
			Form:      eventToForm(event),
		})
	}
}

func updateEventHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}

		if _, err := repo.GetEvent(ctx, id); err != nil {
			if pg.IsNotFoundError(err) {
				return response.Error(response.ErrNotFound)
			}
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		rerender := func(form EventForm, msg string) handler.Response {
			return response.Template(tmpl, eventFormData{
				UserEmail: userEmail(ctx),
				IsEdit:    true,
				EventID:   id,
				Form:      form,
				Error:     msg,
			})
		}

		var form EventForm
		if err := ctx.Bind(&form); err != nil {
			return rerender(form, bindErrorMessage(err))
		}

		if err := repo.UpdateEvent(ctx, repository.UpdateEventParams{
			ID:          id,
			Title:       form.Title,
			ConnpassURL: form.ConnpassURL,
			Description: form.Description,
			StartedAt:   form.StartedAt,
			EndedAt:     form.EndedAt,
			Place:       form.Place,
			Address:     form.Address,
			LimitCount:  form.LimitCount,
			Status:      form.Status,
		}); err != nil {
			return rerender(form, msgSaveFailed)
		}

		return response.Redirect("/admin/events")
	}
}

func deleteEventHandler(repo repository.Querier) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}
		if err := repo.DeleteEvent(ctx, id); err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.Redirect("/admin/events")
	}
}
