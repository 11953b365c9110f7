package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/events"
	"github.com/one-blood/donation-service/internal/persistence"
	"github.com/one-blood/donation-service/internal/repository"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

const (
	statsCacheKey = "admin:stats"
	statsCacheTTL = 30 * time.Second
)

// UserService covers account administration, donor search and admin stats.
type UserService struct {
	users      repository.UserRepository
	requests   repository.DonationRequestRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo    repository.UserRepository
	RequestRepo repository.DonationRequestRepository
	Cache       *persistence.Redis
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		requests:   deps.RequestRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns accounts, optionally filtered by status. Admin only by route.
func (s *UserService) List(ctx context.Context, status *domain.UserStatus) ([]domain.User, error) {
	if status != nil && !domain.ValidUserStatus(*status) {
		return nil, apperrors.NewValidationError("unknown user status", map[string]any{"status": string(*status)})
	}
	users, err := s.users.List(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// GetByEmail returns the account for a verified identity.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateRole changes an account role. Admin only by route; takes effect on
// the very next authorization check because roles are never cached.
func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	if !domain.ValidRole(role) {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:    events.EventUserRoleChanged,
			Payload: events.UserRoleChangedPayload{UserID: id, Role: role},
		})
	}
	return nil
}

// UpdateStatus blocks or unblocks an account. Admin only by route.
func (s *UserService) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	if !domain.ValidUserStatus(status) {
		return apperrors.NewValidationError("unknown user status", map[string]any{"status": string(status)})
	}
	if err := s.users.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ProfileUpdateInput carries the self-editable profile fields.
type ProfileUpdateInput struct {
	Name       string
	Avatar     string
	BloodGroup string
	District   string
	Upazila    string
}

// UpdateProfile rewrites profile fields. Allowed for the account owner or an
// admin; role and status are out of reach here.
func (s *UserService) UpdateProfile(ctx context.Context, actorEmail, id string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if !strings.EqualFold(user.Email, actorEmail) {
		actor, err := s.users.GetByEmail(ctx, actorEmail)
		if err != nil || actor.Role != domain.RoleAdmin {
			return nil, apperrors.NewForbidden("cannot update another user's profile")
		}
	}

	user.Name = input.Name
	user.Avatar = input.Avatar
	user.BloodGroup = input.BloodGroup
	user.District = input.District
	user.Upazila = input.Upazila
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SearchDonors finds active donors matching blood group and location.
func (s *UserService) SearchDonors(ctx context.Context, search repository.DonorSearch) ([]domain.User, error) {
	if strings.TrimSpace(search.BloodGroup) == "" {
		return nil, apperrors.NewValidationError("blood group required", nil)
	}
	donors, err := s.users.SearchDonors(ctx, search)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return donors, nil
}

// HasRole reports whether the email resolves to the given role. Unknown
// emails report false.
func (s *UserService) HasRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperrors.MapError(err)
	}
	return user.Role == role, nil
}

// AdminStats aggregates platform counters.
type AdminStats struct {
	Users    int64 `json:"users"`
	Requests int64 `json:"requests"`
}

// Stats returns platform counters, cached briefly in Redis to keep the admin
// dashboard from hammering COUNT queries.
func (s *UserService) Stats(ctx context.Context) (*AdminStats, error) {
	if cached := s.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	requests, err := s.requests.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &AdminStats{Users: users, Requests: requests}
	s.cacheStats(ctx, stats)
	return stats, nil
}

func (s *UserService) cachedStats(ctx context.Context) *AdminStats {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats AdminStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *UserService) cacheStats(ctx context.Context, stats *AdminStats) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
