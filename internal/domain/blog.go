package domain

import "time"

// BlogStatus controls public visibility of a blog post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// ValidBlogStatus reports whether s is a known blog status.
func ValidBlogStatus(s BlogStatus) bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

// Blog is an editorial post authored by volunteers or admins.
type Blog struct {
	ID          string
	Title       string
	Thumbnail   string
	Content     string
	AuthorEmail string
	Status      BlogStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
