package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/one-blood/donation-service/internal/auth"
	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/events"
	"github.com/one-blood/donation-service/internal/repository"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

// DonationService is the lifecycle manager for donation requests. Every
// status transition is a single conditional write against the store; the
// service never relies on in-process locking.
type DonationService struct {
	requests   repository.DonationRequestRepository
	roles      auth.RoleResolver
	dispatcher events.Dispatcher
}

// DonationDependencies bundles collaborators for the donation service.
type DonationDependencies struct {
	RequestRepo repository.DonationRequestRepository
	Roles       auth.RoleResolver
	Dispatcher  events.Dispatcher
}

// NewDonationService constructs the service.
func NewDonationService(deps DonationDependencies) *DonationService {
	return &DonationService{
		requests:   deps.RequestRepo,
		roles:      deps.Roles,
		dispatcher: deps.Dispatcher,
	}
}

// DonationCreateInput describes the correctable request fields.
type DonationCreateInput struct {
	RequesterName     string
	RecipientName     string
	RecipientDistrict string
	RecipientUpazila  string
	HospitalName      string
	FullAddress       string
	BloodGroup        string
	DonationDate      string
	DonationTime      string
	RequestMessage    string
}

// Create opens a new request owned by the caller. Requests always start
// pending with no donor attached.
func (s *DonationService) Create(ctx context.Context, requesterEmail string, input DonationCreateInput) (*domain.DonationRequest, error) {
	if strings.TrimSpace(input.RecipientName) == "" || strings.TrimSpace(input.BloodGroup) == "" {
		return nil, apperrors.NewValidationError("recipient name and blood group required", nil)
	}

	req := &domain.DonationRequest{
		RequesterEmail:    requesterEmail,
		RequesterName:     strings.TrimSpace(input.RequesterName),
		RecipientName:     strings.TrimSpace(input.RecipientName),
		RecipientDistrict: input.RecipientDistrict,
		RecipientUpazila:  input.RecipientUpazila,
		HospitalName:      input.HospitalName,
		FullAddress:       input.FullAddress,
		BloodGroup:        input.BloodGroup,
		DonationDate:      input.DonationDate,
		DonationTime:      input.DonationTime,
		RequestMessage:    input.RequestMessage,
		Status:            domain.DonationStatusPending,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:       events.EventDonationCreated,
		ActorEmail: requesterEmail,
		Payload: events.DonationCreatedPayload{
			RequestID:  req.ID,
			BloodGroup: req.BloodGroup,
			District:   req.RecipientDistrict,
		},
	})
	return req, nil
}

// ListPublic returns pending requests with contact details scoped out,
// suitable for anonymous browsing.
func (s *DonationService) ListPublic(ctx context.Context) ([]domain.DonationRequest, error) {
	status := domain.DonationStatusPending
	result, err := s.requests.List(ctx, repository.DonationFilter{Status: &status, RecentFirst: true})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range result {
		sanitizeForPublic(&result[i])
	}
	return result, nil
}

// GetPublic returns one pending request for anonymous callers. Requests past
// pending are invisible here, and contact details are scoped out.
func (s *DonationService) GetPublic(ctx context.Context, id string) (*domain.DonationRequest, error) {
	req, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.DonationStatusPending {
		return nil, apperrors.NewNotFound("donation request", nil)
	}
	sanitizeForPublic(req)
	return req, nil
}

// Get returns the full record for the owner or a moderator.
func (s *DonationService) Get(ctx context.Context, actorEmail, id string) (*domain.DonationRequest, error) {
	req, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrModerator(ctx, actorEmail, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListMine returns the caller's own requests, optionally filtered by status.
func (s *DonationService) ListMine(ctx context.Context, actorEmail string, status *domain.DonationStatus) ([]domain.DonationRequest, error) {
	if status != nil && !domain.ValidDonationStatus(*status) {
		return nil, apperrors.NewValidationError("unknown donation status", map[string]any{"status": string(*status)})
	}
	result, err := s.requests.List(ctx, repository.DonationFilter{RequesterEmail: &actorEmail, Status: status})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListRecentMine returns the caller's newest requests first.
func (s *DonationService) ListRecentMine(ctx context.Context, actorEmail string, limit int) ([]domain.DonationRequest, error) {
	result, err := s.requests.List(ctx, repository.DonationFilter{
		RequesterEmail: &actorEmail,
		RecentFirst:    true,
		Limit:          limit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListAll returns every request, optionally filtered by status. Callers reach
// this only through the admin-or-volunteer guard.
func (s *DonationService) ListAll(ctx context.Context, status *domain.DonationStatus) ([]domain.DonationRequest, error) {
	if status != nil && !domain.ValidDonationStatus(*status) {
		return nil, apperrors.NewValidationError("unknown donation status", map[string]any{"status": string(*status)})
	}
	result, err := s.requests.List(ctx, repository.DonationFilter{Status: status, RecentFirst: true})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Claim commits the caller as donor on a pending request. The status change
// and the donor info merge happen in one conditional store write, so two
// concurrent claims can never both succeed.
func (s *DonationService) Claim(ctx context.Context, actorEmail string, id string, donorName string) (*domain.DonationRequest, error) {
	if strings.TrimSpace(donorName) == "" {
		return nil, apperrors.NewValidationError("donor name required", nil)
	}

	donor := domain.DonorInfo{Name: strings.TrimSpace(donorName), Email: actorEmail}
	err := s.requests.Claim(ctx, id, donor)
	if errors.Is(err, pgx.ErrNoRows) {
		// No pending row matched: either the id is unknown or someone
		// else already claimed it.
		if _, getErr := s.getByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, apperrors.NewConflict("donation request already claimed", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	req, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:       events.EventDonationClaimed,
		ActorEmail: actorEmail,
		Payload:    events.DonationClaimedPayload{RequestID: id, Donor: donor},
	})
	return req, nil
}

// SetStatus moves a request to done or canceled. Allowed for the owner, an
// admin, or a volunteer. Repeating a terminal transition with the same target
// is a no-op rather than an error.
func (s *DonationService) SetStatus(ctx context.Context, actorEmail, id string, target domain.DonationStatus) (*domain.DonationRequest, error) {
	if !domain.TerminalDonationStatus(target) {
		return nil, apperrors.NewValidationError("status must be done or canceled", map[string]any{"status": string(target)})
	}

	req, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrModerator(ctx, actorEmail, req); err != nil {
		return nil, err
	}

	if req.Status == target {
		return req, nil
	}
	if !domain.CanTransition(req.Status, target) {
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"from": string(req.Status), "to": string(target),
		})
	}

	from := req.Status
	err = s.requests.SetStatusFrom(ctx, id, target, []domain.DonationStatus{
		domain.DonationStatusPending, domain.DonationStatusInProgress,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a race. Re-read to decide whether the outcome is still
		// the one the caller asked for.
		current, getErr := s.getByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if current.Status == target {
			return current, nil
		}
		return nil, apperrors.NewConflict("illegal status transition", map[string]any{
			"from": string(current.Status), "to": string(target),
		})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	req.Status = target
	s.publish(ctx, events.Event{
		Type:       events.EventDonationStatusChanged,
		ActorEmail: actorEmail,
		Payload:    events.DonationStatusChangedPayload{RequestID: id, From: from, To: target},
	})
	return req, nil
}

// Update rewrites the correctable detail fields. Only the owner or an admin
// may update, and only while no donor has claimed the request. Status and
// donor fields are never touched here.
func (s *DonationService) Update(ctx context.Context, actorEmail, id string, input DonationCreateInput) (*domain.DonationRequest, error) {
	req, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerOrAdmin(ctx, actorEmail, req); err != nil {
		return nil, err
	}
	if req.Status != domain.DonationStatusPending {
		return nil, apperrors.NewConflict("donation request already claimed", map[string]any{"id": id})
	}

	req.RecipientName = input.RecipientName
	req.RecipientDistrict = input.RecipientDistrict
	req.RecipientUpazila = input.RecipientUpazila
	req.HospitalName = input.HospitalName
	req.FullAddress = input.FullAddress
	req.BloodGroup = input.BloodGroup
	req.DonationDate = input.DonationDate
	req.DonationTime = input.DonationTime
	req.RequestMessage = input.RequestMessage

	err = s.requests.UpdateDetails(ctx, req)
	if errors.Is(err, pgx.ErrNoRows) {
		// Claimed between the read and the write.
		if _, getErr := s.getByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, apperrors.NewConflict("donation request already claimed", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

// Delete removes a request. Allowed for the owner or an admin.
func (s *DonationService) Delete(ctx context.Context, actorEmail, id string) error {
	req, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, actorEmail, req); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("donation request", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *DonationService) getByID(ctx context.Context, id string) (*domain.DonationRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("donation request", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

func (s *DonationService) requireOwnerOrModerator(ctx context.Context, actorEmail string, req *domain.DonationRequest) error {
	if strings.EqualFold(req.RequesterEmail, actorEmail) {
		return nil
	}
	return s.requireRole(ctx, actorEmail, domain.RoleAdmin, domain.RoleVolunteer)
}

func (s *DonationService) requireOwnerOrAdmin(ctx context.Context, actorEmail string, req *domain.DonationRequest) error {
	if strings.EqualFold(req.RequesterEmail, actorEmail) {
		return nil
	}
	return s.requireRole(ctx, actorEmail, domain.RoleAdmin)
}

func (s *DonationService) requireRole(ctx context.Context, email string, allowed ...domain.Role) error {
	role, err := s.roles.Resolve(ctx, email)
	if err != nil {
		return apperrors.MapError(err)
	}
	if role != nil {
		for _, candidate := range allowed {
			if *role == candidate {
				return nil
			}
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

func (s *DonationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// sanitizeForPublic strips contact details an anonymous caller must not see:
// donor identity and the requester's email address.
func sanitizeForPublic(req *domain.DonationRequest) {
	req.Donor = nil
	req.RequesterEmail = ""
}
