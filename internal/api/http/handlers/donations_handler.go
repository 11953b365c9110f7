package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/one-blood/donation-service/internal/api/dto"
	"github.com/one-blood/donation-service/internal/auth"
	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/service"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

// DonationsHandler exposes the donation request lifecycle.
type DonationsHandler struct {
	donations *service.DonationService
}

// NewDonationsHandler constructs the handler.
func NewDonationsHandler(donations *service.DonationService) *DonationsHandler {
	return &DonationsHandler{donations: donations}
}

// Create handles POST /donation-requests.
func (h *DonationsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var body dto.DonationRequestBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if body.RequesterName == "" {
		body.RequesterName = claims.Name
	}

	req, err := h.donations.Create(c.Context(), claims.Email, donationInput(body))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDonationRequestResponse(req)})
}

// ListPublic handles GET /donation-requests: pending requests for anonymous
// browsing, contact details scoped out.
func (h *DonationsHandler) ListPublic(c *fiber.Ctx) error {
	reqs, err := h.donations.ListPublic(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponses(reqs)})
}

// GetPublic handles GET /donation-requests/:id.
func (h *DonationsHandler) GetPublic(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := h.donations.GetPublic(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponse(req)})
}

// GetFull handles GET /donation-requests/:id/full for the owner or a
// moderator; unlike the public view it includes every field.
func (h *DonationsHandler) GetFull(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := h.donations.Get(c.Context(), claims.Email, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponse(req)})
}

// ListMine handles GET /donation-requests/mine.
func (h *DonationsHandler) ListMine(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	status, err := donationStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	reqs, err := h.donations.ListMine(c.Context(), claims.Email, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponses(reqs)})
}

// ListRecent handles GET /donation-requests/recent: the caller's newest
// requests, for dashboard previews.
func (h *DonationsHandler) ListRecent(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "3"))
	reqs, err := h.donations.ListRecentMine(c.Context(), claims.Email, limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponses(reqs)})
}

// ListAll handles GET /admin/donation-requests. Guarded by the
// admin-or-volunteer predicate at the router.
func (h *DonationsHandler) ListAll(c *fiber.Ctx) error {
	status, err := donationStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	reqs, err := h.donations.ListAll(c.Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponses(reqs)})
}

// Claim handles PATCH /donation-requests/:id/claim.
func (h *DonationsHandler) Claim(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var body dto.ClaimRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if body.DonorName == "" {
		body.DonorName = claims.Name
	}

	req, err := h.donations.Claim(c.Context(), claims.Email, id, body.DonorName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponse(req)})
}

// SetStatus handles PATCH /donation-requests/:id/status with an explicit
// done or canceled target.
func (h *DonationsHandler) SetStatus(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var body dto.StatusUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if body.Status == "" {
		body.Status = c.Query("status")
	}

	req, err := h.donations.SetStatus(c.Context(), claims.Email, id, domain.DonationStatus(body.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponse(req)})
}

// Update handles PATCH /donation-requests/:id: detail corrections while the
// request is still unclaimed.
func (h *DonationsHandler) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var body dto.DonationRequestBody
	if err := c.BodyParser(&body); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	req, err := h.donations.Update(c.Context(), claims.Email, id, donationInput(body))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDonationRequestResponse(req)})
}

// Delete handles DELETE /donation-requests/:id.
func (h *DonationsHandler) Delete(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.donations.Delete(c.Context(), claims.Email, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func donationInput(body dto.DonationRequestBody) service.DonationCreateInput {
	return service.DonationCreateInput{
		RequesterName:     body.RequesterName,
		RecipientName:     body.RecipientName,
		RecipientDistrict: body.RecipientDistrict,
		RecipientUpazila:  body.RecipientUpazila,
		HospitalName:      body.HospitalName,
		FullAddress:       body.FullAddress,
		BloodGroup:        body.BloodGroup,
		DonationDate:      body.DonationDate,
		DonationTime:      body.DonationTime,
		RequestMessage:    body.RequestMessage,
	}
}

// donationStatusFilter maps the status query to an optional filter; "all" or
// absent means no filtering.
func donationStatusFilter(q string) (*domain.DonationStatus, error) {
	if q == "" || q == "all" {
		return nil, nil
	}
	status := domain.DonationStatus(q)
	if !domain.ValidDonationStatus(status) {
		return nil, apperrors.NewValidationError("unknown donation status", map[string]any{"status": q})
	}
	return &status, nil
}

func parseID(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperrors.NewValidationError("invalid id", map[string]any{"id": raw})
	}
	return raw, nil
}
