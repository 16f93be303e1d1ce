package repository

import "time"

// Post is a gallery entry. Status is either "draft" or "published"; only
// published posts are visible on the public site. Event start/end times are
// kept as the raw "2006-01-02T15:04" strings the datetime-local form inputs
// produce, matching how the data was collected.
type Post struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Slug       string    `db:"slug"`
	Content    string    `db:"content"`
	Status     string    `db:"status"`
	Tags       string    `db:"tags"`
	AuthorName string    `db:"author_name"`
	AuthorURL  string    `db:"author_url"`
	GithubURL  string    `db:"github_url"`
	DemoURL    string    `db:"demo_url"`
	EventID    *int64    `db:"event_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// PostCard is the public listing projection of a post: the post plus the id
// and MIME type of the media chosen as its thumbnail, when it has any media.
type PostCard struct {
	ID                int64     `db:"id"`
	Title             string    `db:"title"`
	Slug              string    `db:"slug"`
	Content           string    `db:"content"`
	Tags              string    `db:"tags"`
	AuthorName        string    `db:"author_name"`
	AuthorURL         string    `db:"author_url"`
	CreatedAt         time.Time `db:"created_at"`
	ThumbnailID       *int64    `db:"thumbnail_id"`
	ThumbnailMimeType *string   `db:"thumbnail_mime_type"`
}

// PostDetail is a published post joined with the title of the event it
// belongs to, if any.
type PostDetail struct {
	Post
	EventTitle *string `db:"event_title"`
}

// PostSummary is the admin listing projection of a post.
type PostSummary struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Slug      string    `db:"slug"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostStats aggregates post counts for the admin dashboard.
type PostStats struct {
	Total     int64 `db:"total"`
	Published int64 `db:"published"`
	Draft     int64 `db:"draft"`
}

// Event is a meetup tied to a set of posts.
type Event struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	ConnpassURL string    `db:"connpass_url"`
	Description string    `db:"description"`
	StartedAt   string    `db:"started_at"`
	EndedAt     string    `db:"ended_at"`
	Place       string    `db:"place"`
	Address     string    `db:"address"`
	LimitCount  int32     `db:"limit_count"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// EventOption is the minimal projection used to populate the event selector
// on the post form.
type EventOption struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
}

// Media is an uploaded file attached to a post. StorageKey addresses the blob
// in the object store and is distinct from the public media id.
type Media struct {
	ID         int64     `db:"id"`
	PostID     int64     `db:"post_id"`
	StorageKey string    `db:"r2_key"`
	Filename   string    `db:"filename"`
	MimeType   string    `db:"mime_type"`
	Size       int64     `db:"size"`
	CreatedAt  time.Time `db:"created_at"`
}

// CreatePostParams holds the fields for inserting a post.
type CreatePostParams struct {
	Title      string
	Slug       string
	Content    string
	Status     string
	AuthorName string
	AuthorURL  string
	GithubURL  string
	DemoURL    string
	Tags       string
}

// UpdatePostParams holds the fields for updating a post.
type UpdatePostParams struct {
	ID         int64
	Title      string
	Slug       string
	Content    string
	Status     string
	AuthorName string
	AuthorURL  string
	GithubURL  string
	DemoURL    string
	Tags       string
	EventID    *int64
}

// CreateEventParams holds the fields for inserting an event.
type CreateEventParams struct {
	Title       string
	ConnpassURL string
	Description string
	StartedAt   string
	EndedAt     string
	Place       string
	Address     string
	LimitCount  int32
	Status      string
}

// UpdateEventParams holds the fields for updating an event.
type UpdateEventParams struct {
	ID          int64
	Title       string
	ConnpassURL string
	Description string
	StartedAt   string
	EndedAt     string
	Place       string
	Address     string
	LimitCount  int32
	Status      string
}

// CreateMediaParams holds the fields for inserting a media record.
type CreateMediaParams struct {
	PostID     int64
	StorageKey string
	Filename   string
	MimeType   string
	Size       int64
}
