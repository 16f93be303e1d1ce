// Package repository implements data access for posts, events, and media on
// top of a pgx connection pool.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the data-access contract handlers and services depend on.
// Keeping it an interface lets tests substitute an in-memory fake.
type Querier interface {
	// Public site
	ListPublishedPosts(ctx context.Context) ([]PostCard, error)
	GetPublishedPostBySlug(ctx context.Context, slug string) (PostDetail, error)
	ListUpcomingEvents(ctx context.Context, now string) ([]Event, error)
	ListPastEvents(ctx context.Context, now string) ([]Event, error)
	GetPublishedEvent(ctx context.Context, id int64) (Event, error)
	ListPostsByEvent(ctx context.Context, eventID int64) ([]PostCard, error)

	// Admin
	PostStats(ctx context.Context) (PostStats, error)
	RecentPosts(ctx context.Context, limit int32) ([]PostSummary, error)
	ListPosts(ctx context.Context) ([]PostSummary, error)
	GetPost(ctx context.Context, id int64) (Post, error)
	CreatePost(ctx context.Context, arg CreatePostParams) (int64, error)
	UpdatePost(ctx context.Context, arg UpdatePostParams) error
	DeletePost(ctx context.Context, id int64) error
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id int64) (Event, error)
	CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error)
	UpdateEvent(ctx context.Context, arg UpdateEventParams) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEventOptions(ctx context.Context) ([]EventOption, error)

	// Media
	ListMediaByPost(ctx context.Context, postID int64) ([]Media, error)
	GetMedia(ctx context.Context, id int64) (Media, error)
	GetMediaForPost(ctx context.Context, id, postID int64) (Media, error)
	CreateMedia(ctx context.Context, arg CreateMediaParams) (int64, error)
	DeleteMedia(ctx context.Context, id int64) error
}

// Repository implements Querier against PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

var _ Querier = (*Repository)(nil)

// New creates a Repository over the given pool.
func New(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const listPublishedPosts = `
SELECT
	p.id, p.title, p.slug, p.content, p.tags, p.author_name, p.author_url, p.created_at,
	(SELECT m.id FROM media m WHERE m.post_id = p.id ORDER BY m.created_at ASC LIMIT 1) AS thumbnail_id,
	(SELECT m.mime_type FROM media m WHERE m.post_id = p.id ORDER BY m.created_at ASC LIMIT 1) AS thumbnail_mime_type
FROM posts p
WHERE p.status = 'published'
ORDER BY p.created_at DESC`

func (r *Repository) ListPublishedPosts(ctx context.Context) ([]PostCard, error) {
	rows, err := r.db.Query(ctx, listPublishedPosts)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[PostCard])
}

const getPublishedPostBySlug = `
SELECT
	p.id, p.title, p.slug, p.content, p.status, p.tags, p.author_name, p.author_url,
	p.github_url, p.demo_url, p.event_id, p.created_at, p.updated_at,
	e.title AS event_title
FROM posts p
LEFT JOIN events e ON p.event_id = e.id
WHERE p.slug = $1 AND p.status = 'published'`

func (r *Repository) GetPublishedPostBySlug(ctx context.Context, slug string) (PostDetail, error) {
	rows, err := r.db.Query(ctx, getPublishedPostBySlug, slug)
	if err != nil {
		return PostDetail{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[PostDetail])
}

const listUpcomingEvents = `
SELECT id, title, connpass_url, description, started_at, ended_at, place, address,
	limit_count, status, created_at, updated_at
FROM events
WHERE status = 'published' AND started_at >= $1
ORDER BY started_at ASC`

func (r *Repository) ListUpcomingEvents(ctx context.Context, now string) ([]Event, error) {
	rows, err := r.db.Query(ctx, listUpcomingEvents, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Event])
}

const listPastEvents = `
SELECT id, title, connpass_url, description, started_at, ended_at, place, address,
	limit_count, status, created_at, updated_at
FROM events
WHERE status = 'published' AND started_at < $1
ORDER BY started_at DESC`

func (r *Repository) ListPastEvents(ctx context.Context, now string) ([]Event, error) {
	rows, err := r.db.Query(ctx, listPastEvents, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Event])
}

const getPublishedEvent = `
SELECT id, title, connpass_url, description, started_at, ended_at, place, address,
	limit_count, status, created_at, updated_at
FROM events
WHERE id = $1 AND status = 'published'`

func (r *Repository) GetPublishedEvent(ctx context.Context, id int64) (Event, error) {
	rows, err := r.db.Query(ctx, getPublishedEvent, id)
	if err != nil {
		return Event{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[Event])
}

// Posts attached to an event prefer a video thumbnail over an image one, so
// event pages lead with motion.
const listPostsByEvent = `
SELECT
	p.id, p.title, p.slug, p.content, p.tags, p.author_name, p.author_url, p.created_at,
	(SELECT m.id FROM media m WHERE m.post_id = p.id
		ORDER BY CASE WHEN m.mime_type LIKE 'video/%' THEN 0 ELSE 1 END ASC, m.created_at ASC
		LIMIT 1) AS thumbnail_id,
	(SELECT m.mime_type FROM media m WHERE m.post_id = p.id
		ORDER BY CASE WHEN m.mime_type LIKE 'video/%' THEN 0 ELSE 1 END ASC, m.created_at ASC
		LIMIT 1) AS thumbnail_mime_type
FROM posts p
WHERE p.event_id = $1 AND p.status = 'published'
ORDER BY p.created_at DESC`

func (r *Repository) ListPostsByEvent(ctx context.Context, eventID int64) ([]PostCard, error) {
	rows, err := r.db.Query(ctx, listPostsByEvent, eventID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[PostCard])
}

const postStats = `
SELECT
	COUNT(*) AS total,
	COUNT(*) FILTER (WHERE status = 'published') AS published,
	COUNT(*) FILTER (WHERE status = 'draft') AS draft
FROM posts`

func (r *Repository) PostStats(ctx context.Context) (PostStats, error) {
	rows, err := r.db.Query(ctx, postStats)
	if err != nil {
		return PostStats{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[PostStats])
}

const recentPosts = `
SELECT id, title, slug, status, created_at, updated_at
FROM posts
ORDER BY created_at DESC
LIMIT $1`

func (r *Repository) RecentPosts(ctx context.Context, limit int32) ([]PostSummary, error) {
	rows, err := r.db.Query(ctx, recentPosts, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[PostSummary])
}

const listPosts = `
SELECT id, title, slug, status, created_at, updated_at
FROM posts
ORDER BY created_at DESC`

func (r *Repository) ListPosts(ctx context.Context) ([]PostSummary, error) {
	rows, err := r.db.Query(ctx, listPosts)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[PostSummary])
}

const getPost = `
SELECT id, title, slug, content, status, tags, author_name, author_url,
	github_url, demo_url, event_id, created_at, updated_at
FROM posts
WHERE id = $1`

func (r *Repository) GetPost(ctx context.Context, id int64) (Post, error) {
	rows, err := r.db.Query(ctx, getPost, id)
	if err != nil {
		return Post{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[Post])
}

const createPost = `
INSERT INTO posts (title, slug, content, status, author_name, author_url, github_url, demo_url, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

func (r *Repository) CreatePost(ctx context.Context, arg CreatePostParams) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, createPost,
		arg.Title, arg.Slug, arg.Content, arg.Status,
		arg.AuthorName, arg.AuthorURL, arg.GithubURL, arg.DemoURL, arg.Tags,
	).Scan(&id)
	return id, err
}

const updatePost = `
UPDATE posts SET
	title = $1, slug = $2, content = $3, status = $4,
	author_name = $5, author_url = $6, github_url = $7, demo_url = $8, tags = $9,
	event_id = $10, updated_at = now()
WHERE id = $11`

func (r *Repository) UpdatePost(ctx context.Context, arg UpdatePostParams) error {
	_, err := r.db.Exec(ctx, updatePost,
		arg.Title, arg.Slug, arg.Content, arg.Status,
		arg.AuthorName, arg.AuthorURL, arg.GithubURL, arg.DemoURL, arg.Tags,
		arg.EventID, arg.ID,
	)
	return err
}

func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

const listEvents = `
SELECT id, title, connpass_url, description, started_at, ended_at, place, address,
	limit_count, status, created_at, updated_at
FROM events
ORDER BY started_at DESC`

func (r *Repository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.db.Query(ctx, listEvents)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Event])
}

const getEvent = `
SELECT id, title, connpass_url, description, started_at, ended_at, place, address,
	limit_count, status, created_at, updated_at
FROM events
WHERE id = $1`

func (r *Repository) GetEvent(ctx context.Context, id int64) (Event, error) {
	rows, err := r.db.Query(ctx, getEvent, id)
	if err != nil {
		return Event{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[Event])
}

const createEvent = `
INSERT INTO events (title, connpass_url, description, started_at, ended_at, place, address, limit_count, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

func (r *Repository) CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, createEvent,
		arg.Title, arg.ConnpassURL, arg.Description,
		arg.StartedAt, arg.EndedAt, arg.Place, arg.Address,
		arg.LimitCount, arg.Status,
	).Scan(&id)
	return id, err
}

const updateEvent = `
UPDATE events SET
	title = $1, connpass_url = $2, description = $3, started_at = $4, ended_at = $5,
	place = $6, address = $7, limit_count = $8, status = $9, updated_at = now()
WHERE id = $10`

func (r *Repository) UpdateEvent(ctx context.Context, arg UpdateEventParams) error {
	_, err := r.db.Exec(ctx, updateEvent,
		arg.Title, arg.ConnpassURL, arg.Description, arg.StartedAt, arg.EndedAt,
		arg.Place, arg.Address, arg.LimitCount, arg.Status, arg.ID,
	)
	return err
}

func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

const listEventOptions = `
SELECT id, title FROM events ORDER BY started_at DESC`

func (r *Repository) ListEventOptions(ctx context.Context) ([]EventOption, error) {
	rows, err := r.db.Query(ctx, listEventOptions)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[EventOption])
}

const listMediaByPost = `
SELECT id, post_id, r2_key, filename, mime_type, size, created_at
FROM media
WHERE post_id = $1
ORDER BY created_at ASC`

func (r *Repository) ListMediaByPost(ctx context.Context, postID int64) ([]Media, error) {
	rows, err := r.db.Query(ctx, listMediaByPost, postID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Media])
}

const getMedia = `
SELECT id, post_id, r2_key, filename, mime_type, size, created_at
FROM media
WHERE id = $1`

func (r *Repository) GetMedia(ctx context.Context, id int64) (Media, error) {
	rows, err := r.db.Query(ctx, getMedia, id)
	if err != nil {
		return Media{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[Media])
}

// GetMediaForPost scopes the lookup by both ids so one post's admin actions
// cannot touch another post's media.
const getMediaForPost = `
SELECT id, post_id, r2_key, filename, mime_type, size, created_at
FROM media
WHERE id = $1 AND post_id = $2`

func (r *Repository) GetMediaForPost(ctx context.Context, id, postID int64) (Media, error) {
	rows, err := r.db.Query(ctx, getMediaForPost, id, postID)
	if err != nil {
		return Media{}, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToStructByName[Media])
}

const createMedia = `
INSERT INTO media (post_id, r2_key, filename, mime_type, size)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

func (r *Repository) CreateMedia(ctx context.Context, arg CreateMediaParams) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, createMedia,
		arg.PostID, arg.StorageKey, arg.Filename, arg.MimeType, arg.Size,
	).Scan(&id)
	return id, err
}

func (r *Repository) DeleteMedia(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	return err
}
