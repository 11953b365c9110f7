package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/repository"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

// BlogService covers editorial content. Drafts are visible to moderators
// only; the public reads published posts.
type BlogService struct {
	blogs repository.BlogRepository
}

// NewBlogService constructs the service.
func NewBlogService(blogs repository.BlogRepository) *BlogService {
	return &BlogService{blogs: blogs}
}

// BlogCreateInput carries the authoring payload.
type BlogCreateInput struct {
	Title     string
	Thumbnail string
	Content   string
}

// Create adds a draft post.
func (s *BlogService) Create(ctx context.Context, authorEmail string, input BlogCreateInput) (*domain.Blog, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("title and content required", nil)
	}
	blog := &domain.Blog{
		Title:       strings.TrimSpace(input.Title),
		Thumbnail:   input.Thumbnail,
		Content:     input.Content,
		AuthorEmail: authorEmail,
		Status:      domain.BlogStatusDraft,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, apperrors.MapError(err)
	}
	return blog, nil
}

// ListPublished returns public posts.
func (s *BlogService) ListPublished(ctx context.Context) ([]domain.Blog, error) {
	status := domain.BlogStatusPublished
	blogs, err := s.blogs.List(ctx, &status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return blogs, nil
}

// ListByStatus returns all posts or those in a given status. Moderator only
// by route.
func (s *BlogService) ListByStatus(ctx context.Context, status *domain.BlogStatus) ([]domain.Blog, error) {
	if status != nil && !domain.ValidBlogStatus(*status) {
		return nil, apperrors.NewValidationError("unknown blog status", map[string]any{"status": string(*status)})
	}
	blogs, err := s.blogs.List(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return blogs, nil
}

// GetPublished returns one post for anonymous readers; drafts are invisible.
func (s *BlogService) GetPublished(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.Status != domain.BlogStatusPublished {
		return nil, apperrors.NewNotFound("blog", nil)
	}
	return blog, nil
}

// SetStatus publishes or unpublishes a post. Admin only by route.
func (s *BlogService) SetStatus(ctx context.Context, id string, status domain.BlogStatus) error {
	if !domain.ValidBlogStatus(status) {
		return apperrors.NewValidationError("unknown blog status", map[string]any{"status": string(status)})
	}
	if err := s.blogs.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("blog", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes a post. Admin only by route.
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.blogs.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("blog", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *BlogService) getByID(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("blog", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return blog, nil
}
