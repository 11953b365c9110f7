package dto

import (
	"time"

	"github.com/one-blood/donation-service/internal/domain"
)

// BlogCreateRequest is the payload for authoring a post.
type BlogCreateRequest struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Content   string `json:"content"`
}

// BlogResponse is the wire form of a post.
type BlogResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"author_email"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBlogResponse maps a domain blog to its wire form.
func NewBlogResponse(blog *domain.Blog) BlogResponse {
	return BlogResponse{
		ID:          blog.ID,
		Title:       blog.Title,
		Thumbnail:   blog.Thumbnail,
		Content:     blog.Content,
		AuthorEmail: blog.AuthorEmail,
		Status:      string(blog.Status),
		CreatedAt:   blog.CreatedAt,
		UpdatedAt:   blog.UpdatedAt,
	}
}

// NewBlogResponses maps a slice of posts.
func NewBlogResponses(blogs []domain.Blog) []BlogResponse {
	result := make([]BlogResponse, 0, len(blogs))
	for i := range blogs {
		result = append(result, NewBlogResponse(&blogs[i]))
	}
	return result
}
