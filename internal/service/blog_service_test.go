package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/repository"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

type BlogServiceSuite struct {
	suite.Suite
	ctx context.Context
	svc *BlogService
}

func TestBlogServiceSuite(t *testing.T) {
	suite.Run(t, new(BlogServiceSuite))
}

func (s *BlogServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.svc = NewBlogService(repository.NewMemoryBlogRepository())
}

func (s *BlogServiceSuite) newBlog() *domain.Blog {
	blog, err := s.svc.Create(s.ctx, "volunteer@example.com", BlogCreateInput{
		Title:   "Why donate",
		Content: "Blood saves lives.",
	})
	s.Require().NoError(err)
	return blog
}

func (s *BlogServiceSuite) TestCreateStartsAsDraft() {
	blog := s.newBlog()
	s.Equal(domain.BlogStatusDraft, blog.Status)
	s.Equal("volunteer@example.com", blog.AuthorEmail)

	_, err := s.svc.Create(s.ctx, "volunteer@example.com", BlogCreateInput{Title: "no body"})
	s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func (s *BlogServiceSuite) TestVisibility() {
	blog := s.newBlog()

	s.Run("drafts are invisible to the public", func() {
		published, err := s.svc.ListPublished(s.ctx)
		s.Require().NoError(err)
		s.Empty(published)

		_, err = s.svc.GetPublished(s.ctx, blog.ID)
		s.True(apperrors.IsCode(err, "NOT_FOUND"))
	})

	s.Run("publishing makes a post public", func() {
		s.Require().NoError(s.svc.SetStatus(s.ctx, blog.ID, domain.BlogStatusPublished))

		published, err := s.svc.ListPublished(s.ctx)
		s.Require().NoError(err)
		s.Len(published, 1)

		got, err := s.svc.GetPublished(s.ctx, blog.ID)
		s.Require().NoError(err)
		s.Equal(blog.ID, got.ID)
	})

	s.Run("unpublishing hides it again", func() {
		s.Require().NoError(s.svc.SetStatus(s.ctx, blog.ID, domain.BlogStatusDraft))
		published, err := s.svc.ListPublished(s.ctx)
		s.Require().NoError(err)
		s.Empty(published)
	})

	s.Run("moderator listing sees drafts", func() {
		all, err := s.svc.ListByStatus(s.ctx, nil)
		s.Require().NoError(err)
		s.Len(all, 1)
	})
}

func (s *BlogServiceSuite) TestSetStatusValidation() {
	blog := s.newBlog()
	err := s.svc.SetStatus(s.ctx, blog.ID, domain.BlogStatus("archived"))
	s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))

	err = s.svc.SetStatus(s.ctx, "55555555-5555-5555-5555-555555555555", domain.BlogStatusPublished)
	s.True(apperrors.IsCode(err, "NOT_FOUND"))
}

func (s *BlogServiceSuite) TestDelete() {
	blog := s.newBlog()
	s.Require().NoError(s.svc.Delete(s.ctx, blog.ID))
	err := s.svc.Delete(s.ctx, blog.ID)
	s.True(apperrors.IsCode(err, "NOT_FOUND"))
}
