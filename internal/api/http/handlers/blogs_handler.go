package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/one-blood/donation-service/internal/api/dto"
	"github.com/one-blood/donation-service/internal/auth"
	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/service"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

// BlogsHandler exposes editorial content endpoints.
type BlogsHandler struct {
	blogs *service.BlogService
}

// NewBlogsHandler constructs the handler.
func NewBlogsHandler(blogs *service.BlogService) *BlogsHandler {
	return &BlogsHandler{blogs: blogs}
}

// Create handles POST /blogs. Guarded by admin-or-volunteer at the router.
func (h *BlogsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var body dto.BlogCreateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	blog, err := h.blogs.Create(c.Context(), claims.Email, service.BlogCreateInput{
		Title:     body.Title,
		Thumbnail: body.Thumbnail,
		Content:   body.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// ListPublished handles GET /blogs.
func (h *BlogsHandler) ListPublished(c *fiber.Ctx) error {
	blogs, err := h.blogs.ListPublished(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogResponses(blogs)})
}

// ListByStatus handles GET /admin/blogs. Guarded at the router.
func (h *BlogsHandler) ListByStatus(c *fiber.Ctx) error {
	var status *domain.BlogStatus
	if q := c.Query("status"); q != "" && q != "all" {
		s := domain.BlogStatus(q)
		status = &s
	}
	blogs, err := h.blogs.ListByStatus(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogResponses(blogs)})
}

// GetPublished handles GET /blogs/:id.
func (h *BlogsHandler) GetPublished(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	blog, err := h.blogs.GetPublished(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// SetStatus handles PATCH /blogs/:id/status. Admin only by route.
func (h *BlogsHandler) SetStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body dto.StatusUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.blogs.SetStatus(c.Context(), id, domain.BlogStatus(body.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "status": body.Status}})
}

// Delete handles DELETE /blogs/:id. Admin only by route.
func (h *BlogsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.blogs.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
