// Package app holds the application context and configuration shared by all
// handlers.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/foundation/core/binder"
	"github.com/dmitrymomot/foundation/core/sanitizer"
	"github.com/dmitrymomot/foundation/core/validator"
)

// Context is the per-request context passed to every handler. It delegates
// cancellation to the request's context.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// SetValue stores a value in the request's context for later retrieval with
// Value.
func (c *Context) SetValue(key, val any) {
	ctx := context.WithValue(c.r.Context(), key, val)
	c.r = c.r.WithContext(ctx)
}

func (c *Context) Request() *http.Request {
	return c.r
}

func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter for the given key.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// Bind binds, sanitizes, and validates request data into the provided struct.
// Path parameters are always applied; query parameters are bound for GET and
// DELETE requests, and form data (including multipart uploads) for the rest.
func (c *Context) Bind(v any) error {
	if len(c.params) > 0 {
		pathBinder := binder.Path(func(r *http.Request, fieldName string) string {
			return c.Param(fieldName)
		})
		if err := pathBinder(c.r, v); err != nil && err != binder.ErrBinderNotApplicable {
			return err
		}
	}

	if c.r.Method == http.MethodGet || c.r.Method == http.MethodDelete {
		if err := binder.Query()(c.r, v); err != nil && err != binder.ErrBinderNotApplicable {
			return err
		}
	} else {
		if err := binder.Form()(c.r, v); err != nil && err != binder.ErrBinderNotApplicable {
			return err
		}
	}

	if err := sanitizer.SanitizeStruct(v); err != nil {
		return err
	}

	return validator.ValidateStruct(v)
}

// NewContext returns the context factory used by the router.
func NewContext() func(http.ResponseWriter, *http.Request, map[string]string) *Context {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
		return &Context{
			w:      w,
			r:      r,
			params: params,
		}
	}
}
