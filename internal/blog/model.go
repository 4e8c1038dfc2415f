package blog

import "time"

type Post struct {
	ID         uint
	Title      string
	Slug       string
	Content    string
	AuthorID   uint
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreatePostParams struct {
	Title    string
	Content  string
	AuthorID uint
}

type UpdatePostParams struct {
	Title   *string
	Content *string
}

// ListOptions sorts on a whitelisted column; anything else falls back to
// newest-first.
type ListOptions struct {
	Limit     *int32
	Page      *int32
	SortBy    string
	SortOrder string
}
