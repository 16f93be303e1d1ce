package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/response"

	"github.com/dmitrymomot/uilab/internal/app"
	"github.com/dmitrymomot/uilab/internal/media"
)

// uploadForm binds the single-file upload from the post editor.
type uploadForm struct {
	File *multipart.FileHeader `file:"file"`
}

func serveMediaHandler(svc *media.Service) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		m, err := svc.Resolve(ctx, ctx.Param("id"))
		if err != nil {
			return response.Error(response.ErrNotFound)
		}
		return svc.Serve(ctx, m, ctx.Request().Header.Get("Range"))
	}
}

func uploadMediaHandler(svc *media.Service) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}

		var form uploadForm
		if err := ctx.Bind(&form); err != nil || form.File == nil {
			return response.Error(response.ErrBadRequest.WithMessage("ファイルが見つかりません"))
		}

		if _, err := svc.Upload(ctx, postID, form.File); err != nil {
			switch {
			case errors.Is(err, media.ErrUnsupportedType):
				return response.Error(response.ErrBadRequest.WithMessage("対応していないファイル形式です"))
			case errors.Is(err, media.ErrTooLarge):
				msg := fmt.Sprintf("ファイルサイズは%dMB以下にしてください", media.MaxUploadSize/(1<<20))
				return response.Error(response.ErrBadRequest.WithMessage(msg))
			default:
				return response.Error(response.ErrInternalServerError.WithError(err))
			}
		}

		return response.Redirect(fmt.Sprintf("/admin/posts/%d/edit", postID))
	}
}

func deleteMediaHandler(svc *media.Service) handler.HandlerFunc[*app.Context] {
	return func(ctx *app.Context) handler.Response {
		postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}
		mediaID, err := strconv.ParseInt(ctx.Param("mediaId"), 10, 64)
		if err != nil {
			return response.Error(response.ErrNotFound)
		}

		if err := svc.Delete(ctx, mediaID, postID); err != nil {
			if errors.Is(err, media.ErrNotFound) {
				return response.Error(response.ErrNotFound)
			}
			return response.Error(response.ErrInternalServerError.WithError(err))
		}

		return response.Redirect(fmt.Sprintf("/admin/posts/%d/edit", postID))
	}
}
