package handler

import (
	"html/template"
	"strconv"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/response"
	"github.com/dmitrymomot/foundation/core/validator"
	"github.com/dmitrymomot/foundation/integration/database/pg"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/repository"
)

const (
	msgSlugTaken  = "このスラッグはすでに使われています"
	msgSaveFailed = "保存に失敗しました"
)

// PostForm carries the post editor's fields through binding, validation, and
// re-rendering on error.
type PostForm struct {
	Title      string `form:"title" sanitize:"trim" validate:"required"`
	Slug       string `form:"slug" sanitize:"trim,lower" validate:"required;regex:^[a-z0-9-]+$"`
	Content    string `form:"content"`
	Status     string `form:"status" validate:"required;in:draft,published"`
	AuthorName string `form:"author_name" sanitize:"trim"`
	AuthorURL  string `form:"author_url" sanitize:"trim"`
	GithubURL  string `form:"github_url" sanitize:"trim"`
	DemoURL    string `form:"demo_url" sanitize:"trim"`
	Tags       string `form:"tags" sanitize:"trim"`
	EventID    string `form:"event_id"`
}

type adminPostsData struct {
	UserEmail string
	Posts     []repository.PostSummary
}

type postFormData struct {
	UserEmail string
	IsEdit    bool
	PostID    int64
	Form      PostForm
	Media     []repository.Media
	Events    []repository.EventOption
	Error     string
	CreatedAt string
	UpdatedAt string
}

func postToForm(p repository.Post) PostForm {
	f := PostForm{
		Title:      p.Title,
		Slug:       p.Slug,
		Content:    p.Content,
		Status:     p.Status,
		AuthorName: p.AuthorName,
		AuthorURL:  p.AuthorURL,
		GithubURL:  p.GithubURL,
		DemoURL:    p.DemoURL,
		Tags:       p.Tags,
	}
	if p.EventID != nil {
		f.EventID = strconv.FormatInt(*p.EventID, 10)
	}
	return f
}

func bindErrorMessage(err error) string {
	if validationErrs := validator.ExtractValidationErrors(err); len(validationErrs) > 0 {
		return validationErrs[0].Message
	}
	return msgSaveFailed
}

func adminPostsHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		posts, err := repo.ListPosts(ctx)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.Template(tmpl, adminPostsData{
			UserEmail: userEmail(ctx),
			Posts:     posts,
		})
	}
}

func newPostPageHandler(tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		return response.Template(tmpl, postFormData{UserEmail: userEmail(ctx)})
	}
}

func createPostHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		var form PostForm
		if err := ctx.Bind(&form); err != nil {
			return response.Template(tmpl, postFormData{
				UserEmail: userEmail(ctx),
				Form:      form,
				Error:     bindErrorMessage(err),
			})
		}

		_, err := repo.CreatePost(ctx, repository.CreatePostParams{
			Title:      form.Title,
			Slug:       form.Slug,
			Content:    form.Content,
			Status:     form.Status,
			AuthorName: form.AuthorName,
			AuthorURL:  form.AuthorURL,
			GithubURL:  form.GithubURL,
			DemoURL:    form.DemoURL,
			Tags:       form.Tags,
		})
		if err != nil {
			msg := msgSaveFailed
			if pg.IsDuplicateKeyError(err) {
				msg = msgSlugTaken
			}
			return response.Template(tmpl, postFormData{
				UserEmail: userEmail(ctx),
				Form:      form,
				Error:     msg,
			})
		}

		return response.Redirect("/admin/posts")
	}
}

func editPostPageHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}

		post, err := repo.GetPost(ctx, id)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return response.Error(response.ErrNotFound)
			}
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		data, err := editPostData(ctx, repo, post)
		if err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.Template(tmpl, data)
	}
}

func editPostData(ctx *app.Context, repo repository.Querier, post repository.Post) (postFormData, error) {
	media, err := repo.ListMediaByPost(ctx, post.ID)
	if err != nil {
		return postFormData{}, err
	}
	events, err := repo.ListEventOptions(ctx)
	if err != nil {
		return postFormData{}, err
	}
	return postFormData{
		UserEmail: userEmail(ctx),
		IsEdit:    true,
		PostID:    post.ID,
		Form:      postToForm(post),
		Media:     media,
		Events:    events,
		CreatedAt: post.CreatedAt.Format("2006-01-02 15:04"),
		UpdatedAt: post.UpdatedAt.Format("2006-01-02 15:04"),
	}, nil
}

func updatePostHandler(repo repository.Querier, tmpl *template.Template) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}

		post, err := repo.GetPost(ctx, id)
		if err != nil {
			if pg.IsNotFoundError(err) {
				return response.Error(response.ErrNotFound)
			}
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		rerender := func(form PostForm, msg string) handler.Response {
			data, dataErr := editPostData(ctx, repo, post)
			if dataErr != nil {
				return response.Error(response.ErrInternalServerError.WithError(dataErr))
			}
			data.Form = form
			data.Error = msg
			return response.Template(tmpl, data)
		}

		var form PostForm
		if err := ctx.Bind(&form); err != nil {
			return rerender(form, bindErrorMessage(err))
		}

		var eventID *int64
		if form.EventID != "" {
			v, perr := strconv.ParseInt(form.EventID, 10, 64)
			if perr != nil {
				return rerender(form, msgSaveFailed)
			}
			eventID = &v
		}

		if err := repo.UpdatePost(ctx, repository.UpdatePostParams{
			ID:         id,
			Title:      form.Title,
			Slug:       form.Slug,
			Content:    form.Content,
			Status:     form.Status,
			AuthorName: form.AuthorName,
			AuthorURL:  form.AuthorURL,
			GithubURL:  form.GithubURL,
			DemoURL:    form.DemoURL,
			Tags:       form.Tags,
			EventID:    eventID,
		}); err != nil {
			msg := msgSaveFailed
			if pg.IsDuplicateKeyError(err) {
				msg = msgSlugTaken
			}
			return rerender(form, msg)
		}

		return response.Redirect("/admin/posts")
	}
}

func deletePostHandler(repo repository.Querier) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}
		if err := repo.DeletePost(ctx, id); err != nil {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
		return response.Redirect("/admin/posts")
	}
}
