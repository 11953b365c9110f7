package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/one-blood/donation-service/internal/api/dto"
	"github.com/one-blood/donation-service/internal/auth"
	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/repository"
	"github.com/one-blood/donation-service/internal/service"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

// UsersHandler exposes account endpoints: profile, donor search, role probes
// and the admin surface.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.users.GetByEmail(c.Context(), claims.Email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateProfile handles PATCH /users/:id.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var body dto.ProfileUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.UpdateProfile(c.Context(), claims.Email, id, service.ProfileUpdateInput{
		Name:       body.Name,
		Avatar:     body.Avatar,
		BloodGroup: body.BloodGroup,
		District:   body.District,
		Upazila:    body.Upazila,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// SearchDonors handles GET /donors/search.
func (h *UsersHandler) SearchDonors(c *fiber.Ctx) error {
	donors, err := h.users.SearchDonors(c.Context(), repository.DonorSearch{
		BloodGroup: c.Query("blood_group"),
		District:   c.Query("district"),
		Upazila:    c.Query("upazila"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(donors)})
}

// IsAdmin handles GET /users/admin/:email.
func (h *UsersHandler) IsAdmin(c *fiber.Ctx) error {
	return h.roleProbe(c, domain.RoleAdmin, "admin")
}

// IsVolunteer handles GET /users/volunteer/:email.
func (h *UsersHandler) IsVolunteer(c *fiber.Ctx) error {
	return h.roleProbe(c, domain.RoleVolunteer, "volunteer")
}

// roleProbe answers dashboards asking whether an account holds a role. The
// probe is limited to the caller's own email; role facts about other users
// are not public.
func (h *UsersHandler) roleProbe(c *fiber.Ctx, role domain.Role, key string) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	email := c.Params("email")
	if email != claims.Email {
		return apperrors.NewForbidden("email does not match token")
	}
	has, err := h.users.HasRole(c.Context(), email, role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{key: has})
}

// List handles GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	status, err := userStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	users, err := h.users.List(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// UpdateRole handles PATCH /admin/users/:id/role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body dto.RoleUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.users.UpdateRole(c.Context(), id, domain.Role(body.Role)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "role": body.Role}})
}

// UpdateStatus handles PATCH /admin/users/:id/status.
func (h *UsersHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body dto.StatusUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.users.UpdateStatus(c.Context(), id, domain.UserStatus(body.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "status": body.Status}})
}

// Stats handles GET /admin/stats.
func (h *UsersHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func userStatusFilter(q string) (*domain.UserStatus, error) {
	if q == "" || q == "all" {
		return nil, nil
	}
	status := domain.UserStatus(q)
	if !domain.ValidUserStatus(status) {
		return nil, apperrors.NewValidationError("unknown user status", map[string]any{"status": q})
	}
	return &status, nil
}
