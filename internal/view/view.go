// Package view loads and holds the application's HTML templates.
package view

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

// Templates holds one parsed template set per page, each combined with its
// layout.
type Templates struct {
	Home   *template.Template
	Post   *template.Template
	Events *template.Template
	Event  *template.Template
	Login  *template.Template
	Error  *template.Template

	AdminDashboard *template.Template
	AdminPosts     *template.Template
	AdminPostForm  *template.Template
	AdminEvents    *template.Template
	AdminEventForm *template.Template
}

// funcs are helpers available to every template.
var funcs = template.FuncMap{
	// tags splits a comma-separated tag string into trimmed, non-empty parts.
	"tags": func(s string) []string {
		var out []string
		for _, t := range strings.Split(s, ",") {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, t)
			}
		}
		return out
	},
	// datetime turns "2025-06-01T19:00" into "2025-06-01 19:00".
	"datetime": func(s string) string {
		return strings.ReplaceAll(s, "T", " ")
	},
	// timeOf extracts "19:00" from "2025-06-01T19:00".
	"timeOf": func(s string) string {
		if len(s) >= 16 {
			return s[11:16]
		}
		return ""
	},
	// deref unwraps an optional string for passing into other helpers.
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"isVideo": func(mime string) bool {
		return strings.HasPrefix(mime, "video/")
	},
	"isImage": func(mime string) bool {
		return strings.HasPrefix(mime, "image/")
	},
	// dict builds a map for passing multiple values to a nested template.
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict requires an even number of arguments")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings")
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
	"fmtSize": func(bytes int64) string {
		switch {
		case bytes < 1024:
			return fmt.Sprintf("%d B", bytes)
		case bytes < 1024*1024:
			return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
		default:
			return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
		}
	},
}

// Load parses all templates from dir. Each page is parsed together with its
// layout so pages can be rendered with a single Execute.
func Load(dir string) (*Templates, error) {
	parse := func(layout, page string) (*template.Template, error) {
		return template.New(layout).Funcs(funcs).ParseFiles(
			filepath.Join(dir, layout),
			filepath.Join(dir, page),
		)
	}

	t := &Templates{}
	pages := []struct {
		dst    **template.Template
		layout string
		page   string
	}{
		{&t.Home, "layout.html", "home.html"},
		{&t.Post, "layout.html", "post.html"},
		{&t.Events, "layout.html", "events.html"},
		{&t.Event, "layout.html", "event.html"},
		{&t.Login, "layout.html", "login.html"},
		{&t.Error, "layout.html", "error.html"},
		{&t.AdminDashboard, "admin_layout.html", "admin_dashboard.html"},
		{&t.AdminPosts, "admin_layout.html", "admin_posts.html"},
		{&t.AdminPostForm, "admin_layout.html", "admin_post_form.html"},
		{&t.AdminEvents, "admin_layout.html", "admin_events.html"},
		{&t.AdminEventForm, "admin_layout.html", "admin_event_form.html"},
	}
	for _, p := range pages {
		tmpl, err := parse(p.layout, p.page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p.page, err)
		}
		*p.dst = tmpl
	}
	return t, nil
}
