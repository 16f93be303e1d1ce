package main

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/foundation/core/response"

	"github.com/dmitrymomot/uilab/internal/app"
)

type errorPageData struct {
	Status  int
	Message string
}

// errorHandler renders handler errors as HTML error pages.
func errorHandler(tmpl *template.Template) func(ctx *app.Context, err error) {
	return func(ctx *app.Context, err error) {
		data := errorPageData{
			Status:  http.StatusInternalServerError,
			Message: "Something went wrong",
		}

		var httpErr response.HTTPError
		if errors.As(err, &httpErr) {
			data.Status = httpErr.Status
			if httpErr.Message != "" {
				data.Message = httpErr.Message
			} else {
				data.Message = http.StatusText(httpErr.Status)
			}
		}

		ctx.ResponseWriter().Header().Set("Content-Type", "text/html; charset=utf-8")
		ctx.ResponseWriter().WriteHeader(data.Status)

		if err := tmpl.Execute(ctx.ResponseWriter(), data); err != nil {
			// Fallback to plain text if the template fails
			http.Error(ctx.ResponseWriter(), data.Message, data.Status)
		}
	}
}
