package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrymomot/foundation/core/handler"
	"github.com/dmitrymomot/foundation/core/logger"
	"github.com/dmitrymomot/foundation/core/response"

	"github.com/dmitrymomot/uilab/internal/repository"
	"github.com/dmitrymomot/uilab/internal/storage"
)

// byteRange is a resolved, inclusive byte range within an object.
type byteRange struct {
	start int64
	end   int64
}

// parseRange resolves a single-range Range header against an object of the
// given size. It returns (nil, false) for a malformed or absent header, which
// callers treat as a full-body request, and (nil, true) for a syntactically
// valid but unsatisfiable range.
func parseRange(header string, size int64) (*byteRange, bool) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, false
	}
	// Multi-range requests are not supported; serve the full body.
	if strings.Contains(spec, ",") {
		return nil, false
	}
	first, last, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, false
	}

	if first == "" {
		// Suffix range: last N bytes.
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n <= 0 {
			return nil, false
		}
		if size == 0 {
			return nil, true
		}
		if n > size {
			n = size
		}
		return &byteRange{start: size - n, end: size - 1}, true
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 {
		return nil, false
	}
	end := size - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil {
			return nil, false
		}
	}
	if start >= size || end < start {
		return nil, true
	}
	if end > size-1 {
		end = size - 1
	}
	return &byteRange{start: start, end: end}, true
}

// Serve builds the response for GET /media/{id}. A valid Range header yields
// a 206 with the requested slice, an out-of-bounds one a 416, and anything
// else the full object with a 200.
func (s *Service) Serve(ctx context.Context, m repository.Media, rangeHeader string) handler.Response {
	rng, valid := parseRange(rangeHeader, m.Size)
	if valid && rng == nil {
		return serveUnsatisfiable(m.Size)
	}

	if rng != nil {
		obj, err := s.store.GetRange(ctx, m.StorageKey, rng.start, rng.end)
		if err != nil {
			return s.storageError(ctx, m, err)
		}
		return servePartial(m, obj, *rng)
	}

	obj, err := s.store.Get(ctx, m.StorageKey)
	if err != nil {
		return s.storageError(ctx, m, err)
	}
	return serveFull(m, obj)
}

func (s *Service) storageError(ctx context.Context, m repository.Media, err error) handler.Response {
	if errors.Is(err, storage.ErrObjectNotFound) {
		s.log.ErrorContext(ctx, "media row points at a missing object",
			slog.Int64("media_id", m.ID), slog.String("key", m.StorageKey), logger.Error(err))
		return response.Error(response.ErrNotFound)
	}
	return response.Error(response.ErrInternalServerError.WithError(err))
}

func setCommonHeaders(w http.ResponseWriter, m repository.Media) {
	w.Header().Set("Content-Type", m.MimeType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", m.Filename))
	w.Header().Set("Accept-Ranges", "bytes")
}

func serveFull(m repository.Media, obj *storage.Object) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		defer obj.Body.Close()
		setCommonHeaders(w, m)
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		w.WriteHeader(http.StatusOK)
		_, err := io.Copy(w, obj.Body)
		return err
	}
}

func servePartial(m repository.Media, obj *storage.Object, rng byteRange) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		defer obj.Body.Close()
		setCommonHeaders(w, m)
		w.Header().Set("Content-Length", strconv.FormatInt(rng.end-rng.start+1, 10))
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end, m.Size))
		w.WriteHeader(http.StatusPartialContent)
		_, err := io.Copy(w, obj.Body)
		return err
	}
}

func serveUnsatisfiable(size int64) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
}
