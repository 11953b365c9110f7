package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/events"
	"github.com/one-blood/donation-service/internal/repository"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

type UserServiceSuite struct {
	suite.Suite
	ctx      context.Context
	users    *repository.MemoryUserRepository
	requests *repository.MemoryDonationRequestRepository
	svc      *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = repository.NewMemoryUserRepository()
	s.requests = repository.NewMemoryDonationRequestRepository()
	s.svc = NewUserService(UserDependencies{
		UserRepo:    s.users,
		RequestRepo: s.requests,
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
}

func (s *UserServiceSuite) addUser(email string, role domain.Role) *domain.User {
	user := &domain.User{
		Name:       "User " + email,
		Email:      email,
		Role:       role,
		Status:     domain.UserStatusActive,
		BloodGroup: "O+",
		District:   "Dhaka",
		Upazila:    "Savar",
	}
	s.Require().NoError(s.users.Create(s.ctx, user))
	return user
}

func (s *UserServiceSuite) TestUpdateRole() {
	user := s.addUser("donor@example.com", domain.RoleDonor)

	s.Run("promotes donor to volunteer", func() {
		s.Require().NoError(s.svc.UpdateRole(s.ctx, user.ID, domain.RoleVolunteer))
		stored, err := s.users.GetByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(domain.RoleVolunteer, stored.Role)
	})

	s.Run("rejects unknown role", func() {
		err := s.svc.UpdateRole(s.ctx, user.ID, domain.Role("superuser"))
		s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	s.Run("unknown user is not found", func() {
		err := s.svc.UpdateRole(s.ctx, "44444444-4444-4444-4444-444444444444", domain.RoleAdmin)
		s.True(apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func (s *UserServiceSuite) TestUpdateStatus() {
	user := s.addUser("donor@example.com", domain.RoleDonor)

	s.Require().NoError(s.svc.UpdateStatus(s.ctx, user.ID, domain.UserStatusBlocked))
	stored, err := s.users.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(domain.UserStatusBlocked, stored.Status)

	err = s.svc.UpdateStatus(s.ctx, user.ID, domain.UserStatus("frozen"))
	s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func (s *UserServiceSuite) TestUpdateProfile() {
	owner := s.addUser("owner@example.com", domain.RoleDonor)
	s.addUser("other@example.com", domain.RoleDonor)
	s.addUser("admin@example.com", domain.RoleAdmin)

	input := ProfileUpdateInput{Name: "Renamed", BloodGroup: "AB+", District: "Dhaka", Upazila: "Savar"}

	s.Run("owner edits own profile", func() {
		updated, err := s.svc.UpdateProfile(s.ctx, "owner@example.com", owner.ID, input)
		s.Require().NoError(err)
		s.Equal("Renamed", updated.Name)
		s.Equal("AB+", updated.BloodGroup)
	})

	s.Run("admin edits any profile", func() {
		_, err := s.svc.UpdateProfile(s.ctx, "admin@example.com", owner.ID, input)
		s.NoError(err)
	})

	s.Run("stranger is forbidden", func() {
		_, err := s.svc.UpdateProfile(s.ctx, "other@example.com", owner.ID, input)
		s.True(apperrors.IsCode(err, "FORBIDDEN"))
	})
}

func (s *UserServiceSuite) TestSearchDonors() {
	s.addUser("match@example.com", domain.RoleDonor)
	blocked := s.addUser("blocked@example.com", domain.RoleDonor)
	s.Require().NoError(s.users.UpdateStatus(s.ctx, blocked.ID, domain.UserStatusBlocked))

	s.Run("finds active donors by blood group and location", func() {
		result, err := s.svc.SearchDonors(s.ctx, repository.DonorSearch{
			BloodGroup: "O+", District: "Dhaka", Upazila: "Savar",
		})
		s.Require().NoError(err)
		s.Require().Len(result, 1)
		s.Equal("match@example.com", result[0].Email)
	})

	s.Run("blood group is required", func() {
		_, err := s.svc.SearchDonors(s.ctx, repository.DonorSearch{District: "Dhaka"})
		s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func (s *UserServiceSuite) TestHasRole() {
	s.addUser("admin@example.com", domain.RoleAdmin)

	isAdmin, err := s.svc.HasRole(s.ctx, "admin@example.com", domain.RoleAdmin)
	s.Require().NoError(err)
	s.True(isAdmin)

	isVolunteer, err := s.svc.HasRole(s.ctx, "admin@example.com", domain.RoleVolunteer)
	s.Require().NoError(err)
	s.False(isVolunteer)

	unknown, err := s.svc.HasRole(s.ctx, "ghost@example.com", domain.RoleAdmin)
	s.Require().NoError(err)
	s.False(unknown, "unknown email holds no role")
}

func (s *UserServiceSuite) TestStats() {
	s.addUser("a@example.com", domain.RoleDonor)
	s.addUser("b@example.com", domain.RoleDonor)
	s.Require().NoError(s.requests.Create(s.ctx, &domain.DonationRequest{
		RequesterEmail: "a@example.com",
		RecipientName:  "Patient",
		BloodGroup:     "O+",
		Status:         domain.DonationStatusPending,
	}))

	// No cache wired in tests; counts come straight from the stores.
	stats, err := s.svc.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.Users)
	s.Equal(int64(1), stats.Requests)
}
