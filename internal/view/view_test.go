package view_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uilab/internal/repository"
	"github.com/dmitrymomot/uilab/internal/view"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tmpl, err := view.Load("templates")
	require.NoError(t, err)

	assert.NotNil(t, tmpl.Home)
	assert.NotNil(t, tmpl.Post)
	assert.NotNil(t, tmpl.Events)
	assert.NotNil(t, tmpl.Event)
	assert.NotNil(t, tmpl.Login)
	assert.NotNil(t, tmpl.Error)
	assert.NotNil(t, tmpl.AdminDashboard)
	assert.NotNil(t, tmpl.AdminPosts)
	assert.NotNil(t, tmpl.AdminPostForm)
	assert.NotNil(t, tmpl.AdminEvents)
	assert.NotNil(t, tmpl.AdminEventForm)
}

func TestLoad_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := view.Load("no-such-dir")
	assert.Error(t, err)
}

func TestRenderHome(t *testing.T) {
	t.Parallel()

	tmpl, err := view.Load("templates")
	require.NoError(t, err)

	thumbID := int64(9)
	data := struct {
		Posts []repository.PostCard
	}{
		Posts: []repository.PostCard{{
			ID:          1,
			Title:       "Hover states done right",
			Slug:        "hover-states",
			Content:     "A closer look at button hover feedback.",
			Tags:        "button, hover ,  ",
			ThumbnailID: &thumbID,
			CreatedAt:   time.Now(),
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.Home.Execute(&buf, data))

	html := buf.String()
	assert.Contains(t, html, `href="/posts/hover-states"`)
	assert.Contains(t, html, `src="/media/9"`)
	assert.Contains(t, html, "Hover states done right")
	assert.Contains(t, html, ">button</span>")
	assert.Contains(t, html, ">hover</span>")
	assert.NotContains(t, html, "No posts yet.")
}

func TestRenderEvents(t *testing.T) {
	t.Parallel()

	tmpl, err := view.Load("templates")
	require.NoError(t, err)

	data := struct {
		Upcoming []repository.Event
		Past     []repository.Event
	}{
		Upcoming: []repository.Event{{
			ID:          3,
			Title:       "UI Lab Meetup vol.3",
			StartedAt:   "2026-09-01T19:00",
			EndedAt:     "2026-09-01T21:00",
			Place:       "Shibuya",
			ConnpassURL: "https://example.connpass.com/event/3/",
		}},
		Past: []repository.Event{{
			ID:        1,
			Title:     "UI Lab Meetup vol.1",
			StartedAt: "2025-04-01T19:00",
			EndedAt:   "2025-04-01T21:00",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, tmpl.Events.Execute(&buf, data))

	html := buf.String()
	assert.Contains(t, html, `href="/events/3"`)
	assert.Contains(t, html, "UI Lab Meetup vol.3")
	assert.Contains(t, html, "2026-09-01 19:00 〜 21:00")
	assert.Contains(t, html, "09/01")
	assert.Contains(t, html, "UI Lab Meetup vol.1")
	assert.Contains(t, html, "opacity-60")
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	tmpl, err := view.Load("templates")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Error.Execute(&buf, struct {
		Status  int
		Message string
	}{Status: 404, Message: "ページが見つかりません"}))

	html := buf.String()
	assert.Contains(t, html, "404")
	assert.Contains(t, html, "ページが見つかりません")
}
