// Package media handles upload, lookup, deletion, and HTTP serving of post
// attachments stored in object storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrymomot/foundation/core/logger"

	"github.com/dmitrymomot/uilab/internal/repository"
	"github.com/dmitrymomot/uilab/internal/storage"
)

// MaxUploadSize caps a single upload at 100 MiB.
const MaxUploadSize = 100 << 20

var (
	ErrNotFound        = errors.New("media: not found")
	ErrUnsupportedType = errors.New("media: unsupported content type")
	ErrTooLarge        = errors.New("media: file too large")
)

// allowedTypes is the upload allow-list. Anything else is rejected before the
// file touches storage.
var allowedTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"video/mp4":     true,
	"video/webm":    true,
	"video/ogg":     true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w.\-]`)

// Service coordinates the media table and the object store.
type Service struct {
	repo  repository.Querier
	store storage.Store
	log   *slog.Logger
}

func NewService(repo repository.Querier, store storage.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:  repo,
		store: store,
		log:   log.With(logger.Component("media")),
	}
}

// Resolve looks up a media row by its raw path parameter. A non-integer id is
// treated the same as a missing row.
func (s *Service) Resolve(ctx context.Context, rawID string) (repository.Media, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return repository.Media{}, ErrNotFound
	}
	m, err := s.repo.GetMedia(ctx, id)
	if err != nil {
		return repository.Media{}, ErrNotFound
	}
	return m, nil
}

// Upload validates the file, writes it to object storage under a fresh key,
// and records the row. Storage is written first so a failed insert can never
// leave a row pointing at a missing object; the reverse (an orphan object) is
// logged and tolerated.
func (s *Service) Upload(ctx context.Context, postID int64, fh *multipart.FileHeader) (repository.Media, error) {
	contentType := fh.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return repository.Media{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if fh.Size > MaxUploadSize {
		return repository.Media{}, ErrTooLarge
	}

	key := uuid.NewString() + filepath.Ext(fh.Filename)
	filename := unsafeFilenameChars.ReplaceAllString(fh.Filename, "_")

	f, err := fh.Open()
	if err != nil {
		return repository.Media{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	if err := s.store.Put(ctx, key, contentType, f); err != nil {
		return repository.Media{}, fmt.Errorf("store upload: %w", err)
	}

	id, err := s.repo.CreateMedia(ctx, repository.CreateMediaParams{
		PostID:     postID,
		StorageKey: key,
		Filename:   filename,
		MimeType:   contentType,
		Size:       fh.Size,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "media row insert failed, orphan object left in storage",
			slog.String("key", key), logger.Error(err))
		return repository.Media{}, fmt.Errorf("record upload: %w", err)
	}

	return repository.Media{
		ID:         id,
		PostID:     postID,
		StorageKey: key,
		Filename:   filename,
		MimeType:   contentType,
		Size:       fh.Size,
	}, nil
}

// Delete removes a media row and its stored object. The lookup is scoped by
// post so a request cannot delete another post's media. A storage delete
// failure is logged but does not keep the row alive.
func (s *Service) Delete(ctx context.Context, mediaID, postID int64) error {
	m, err := s.repo.GetMediaForPost(ctx, mediaID, postID)
	if err != nil {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, m.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.ErrorContext(ctx, "storage delete failed, removing row anyway",
			slog.String("key", m.StorageKey), logger.Error(err))
	}

	return s.repo.DeleteMedia(ctx, m.ID)
}
