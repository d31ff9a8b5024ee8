package domain

import "time"

// Blog is a single post, draft or published. Slug is the URL-facing
// identifier and is unique; ID is the internal primary key.
type Blog struct {
	ID          string
	Slug        string
	Title       string
	Banner      string
	Description string
	Content     string // editor document as a JSON blob, opaque to the backend
	Tags        []string
	Draft       bool
	AuthorID    string

	Activity BlogActivity

	// Author is populated on reads that join the users table; zero value on
	// writes.
	Author Author

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlogActivity holds the denormalized engagement counters shown on cards
// and used for trending ordering.
type BlogActivity struct {
	TotalLikes          int64 `json:"total_likes"`
	TotalComments       int64 `json:"total_comments"`
	TotalReads          int64 `json:"total_reads"`
	TotalParentComments int64 `json:"total_parent_comments"`
}

// Author is the post author's public identity embedded in blog reads.
type Author struct {
	Fullname   string `json:"fullname"`
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
}
