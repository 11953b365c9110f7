package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/one-blood/donation-service/internal/auth"
	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/events"
	"github.com/one-blood/donation-service/internal/repository"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

type DonationServiceSuite struct {
	suite.Suite
	ctx      context.Context
	users    *repository.MemoryUserRepository
	requests *repository.MemoryDonationRequestRepository
	svc      *DonationService
}

func TestDonationServiceSuite(t *testing.T) {
	suite.Run(t, new(DonationServiceSuite))
}

func (s *DonationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = repository.NewMemoryUserRepository()
	s.requests = repository.NewMemoryDonationRequestRepository()
	s.svc = NewDonationService(DonationDependencies{
		RequestRepo: s.requests,
		Roles:       auth.NewRoleResolver(s.users),
		Dispatcher:  events.NewInMemoryDispatcher(),
	})

	for email, role := range map[string]domain.Role{
		"owner@example.com":     domain.RoleDonor,
		"donor-b@example.com":   domain.RoleDonor,
		"donor-c@example.com":   domain.RoleDonor,
		"volunteer@example.com": domain.RoleVolunteer,
		"admin@example.com":     domain.RoleAdmin,
	} {
		s.Require().NoError(s.users.Create(s.ctx, &domain.User{
			Name:   email,
			Email:  email,
			Role:   role,
			Status: domain.UserStatusActive,
		}))
	}
}

func (s *DonationServiceSuite) newRequest() *domain.DonationRequest {
	req, err := s.svc.Create(s.ctx, "owner@example.com", DonationCreateInput{
		RequesterName:     "Owner",
		RecipientName:     "Patient",
		RecipientDistrict: "Dhaka",
		RecipientUpazila:  "Savar",
		HospitalName:      "General Hospital",
		BloodGroup:        "O+",
	})
	s.Require().NoError(err)
	return req
}

func (s *DonationServiceSuite) TestCreate() {
	s.Run("starts pending with no donor", func() {
		req := s.newRequest()
		s.Equal(domain.DonationStatusPending, req.Status)
		s.Nil(req.Donor)
		s.NotEmpty(req.ID)
	})

	s.Run("rejects missing recipient or blood group", func() {
		_, err := s.svc.Create(s.ctx, "owner@example.com", DonationCreateInput{RecipientName: "X"})
		s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func (s *DonationServiceSuite) TestClaim() {
	s.Run("moves pending to inprogress with donor info in one step", func() {
		req := s.newRequest()
		claimed, err := s.svc.Claim(s.ctx, "donor-b@example.com", req.ID, "Donor B")
		s.Require().NoError(err)
		s.Equal(domain.DonationStatusInProgress, claimed.Status)
		s.Require().NotNil(claimed.Donor)
		s.Equal("donor-b@example.com", claimed.Donor.Email)
		s.Equal("Donor B", claimed.Donor.Name)
	})

	s.Run("second claim conflicts", func() {
		req := s.newRequest()
		_, err := s.svc.Claim(s.ctx, "donor-b@example.com", req.ID, "Donor B")
		s.Require().NoError(err)

		_, err = s.svc.Claim(s.ctx, "donor-c@example.com", req.ID, "Donor C")
		s.True(apperrors.IsCode(err, "CONFLICT"))

		// Original donor untouched.
		stored, getErr := s.requests.GetByID(s.ctx, req.ID)
		s.Require().NoError(getErr)
		s.Equal("donor-b@example.com", stored.Donor.Email)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.svc.Claim(s.ctx, "donor-b@example.com", "11111111-1111-1111-1111-111111111111", "Donor B")
		s.True(apperrors.IsCode(err, "NOT_FOUND"))
	})

	s.Run("donor name required", func() {
		req := s.newRequest()
		_, err := s.svc.Claim(s.ctx, "donor-b@example.com", req.ID, "  ")
		s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func (s *DonationServiceSuite) TestConcurrentClaims() {
	req := s.newRequest()

	const claimers = 8
	var wg sync.WaitGroup
	errs := make([]error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = s.svc.Claim(s.ctx, "donor-b@example.com", req.ID, "Racer")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			s.True(apperrors.IsCode(err, "CONFLICT"))
		}
	}
	s.Equal(1, wins, "exactly one claim succeeds")

	stored, err := s.requests.GetByID(s.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(domain.DonationStatusInProgress, stored.Status)
	s.Require().NotNil(stored.Donor, "inprogress always carries donor info")
}

func (s *DonationServiceSuite) TestSetStatus() {
	s.Run("owner can cancel a pending request", func() {
		req := s.newRequest()
		updated, err := s.svc.SetStatus(s.ctx, "owner@example.com", req.ID, domain.DonationStatusCanceled)
		s.Require().NoError(err)
		s.Equal(domain.DonationStatusCanceled, updated.Status)
	})

	s.Run("volunteer can complete another user's request", func() {
		req := s.newRequest()
		_, err := s.svc.Claim(s.ctx, "donor-b@example.com", req.ID, "Donor B")
		s.Require().NoError(err)

		updated, err := s.svc.SetStatus(s.ctx, "volunteer@example.com", req.ID, domain.DonationStatusDone)
		s.Require().NoError(err)
		s.Equal(domain.DonationStatusDone, updated.Status)
	})

	s.Run("non-owner donor is forbidden", func() {
		req := s.newRequest()
		_, err := s.svc.SetStatus(s.ctx, "donor-c@example.com", req.ID, domain.DonationStatusDone)
		s.True(apperrors.IsCode(err, "FORBIDDEN"))
	})

	s.Run("terminal transition is idempotent", func() {
		req := s.newRequest()
		_, err := s.svc.SetStatus(s.ctx, "owner@example.com", req.ID, domain.DonationStatusDone)
		s.Require().NoError(err)

		again, err := s.svc.SetStatus(s.ctx, "owner@example.com", req.ID, domain.DonationStatusDone)
		s.Require().NoError(err)
		s.Equal(domain.DonationStatusDone, again.Status)
	})

	s.Run("done cannot flip to canceled", func() {
		req := s.newRequest()
		_, err := s.svc.SetStatus(s.ctx, "owner@example.com", req.ID, domain.DonationStatusDone)
		s.Require().NoError(err)

		_, err = s.svc.SetStatus(s.ctx, "owner@example.com", req.ID, domain.DonationStatusCanceled)
		s.True(apperrors.IsCode(err, "CONFLICT"))
	})

	s.Run("pending is not a valid explicit target", func() {
		req := s.newRequest()
		_, err := s.svc.SetStatus(s.ctx, "owner@example.com", req.ID, domain.DonationStatusPending)
		s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	s.Run("unknown id is not found", func() {
		_, err := s.svc.SetStatus(s.ctx, "owner@example.com", "22222222-2222-2222-2222-222222222222", domain.DonationStatusDone)
		s.True(apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func (s *DonationServiceSuite) TestUpdate() {
	s.Run("owner corrects details while pending", func() {
		req := s.newRequest()
		updated, err := s.svc.Update(s.ctx, "owner@example.com", req.ID, DonationCreateInput{
			RecipientName: "Corrected Patient",
			BloodGroup:    "A-",
		})
		s.Require().NoError(err)
		s.Equal("Corrected Patient", updated.RecipientName)
		s.Equal("A-", updated.BloodGroup)
		s.Equal(domain.DonationStatusPending, updated.Status, "update never changes status")
	})

	s.Run("admin may correct another user's request", func() {
		req := s.newRequest()
		_, err := s.svc.Update(s.ctx, "admin@example.com", req.ID, DonationCreateInput{
			RecipientName: "Fixed",
			BloodGroup:    "O+",
		})
		s.Require().NoError(err)
	})

	s.Run("non-owner is forbidden", func() {
		req := s.newRequest()
		_, err := s.svc.Update(s.ctx, "donor-b@example.com", req.ID, DonationCreateInput{
			RecipientName: "Hijack",
			BloodGroup:    "O+",
		})
		s.True(apperrors.IsCode(err, "FORBIDDEN"))
	})

	s.Run("claimed request rejects updates", func() {
		req := s.newRequest()
		_, err := s.svc.Claim(s.ctx, "donor-b@example.com", req.ID, "Donor B")
		s.Require().NoError(err)

		_, err = s.svc.Update(s.ctx, "owner@example.com", req.ID, DonationCreateInput{
			RecipientName: "Too Late",
			BloodGroup:    "O+",
		})
		s.True(apperrors.IsCode(err, "CONFLICT"))
	})
}

func (s *DonationServiceSuite) TestDelete() {
	s.Run("owner deletes own request", func() {
		req := s.newRequest()
		s.Require().NoError(s.svc.Delete(s.ctx, "owner@example.com", req.ID))
		_, err := s.requests.GetByID(s.ctx, req.ID)
		s.Error(err)
	})

	s.Run("volunteer cannot delete", func() {
		req := s.newRequest()
		err := s.svc.Delete(s.ctx, "volunteer@example.com", req.ID)
		s.True(apperrors.IsCode(err, "FORBIDDEN"))
	})

	s.Run("admin can delete", func() {
		req := s.newRequest()
		s.Require().NoError(s.svc.Delete(s.ctx, "admin@example.com", req.ID))
	})

	s.Run("unknown id is not found", func() {
		err := s.svc.Delete(s.ctx, "owner@example.com", "33333333-3333-3333-3333-333333333333")
		s.True(apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func (s *DonationServiceSuite) TestListingScopes() {
	mine := s.newRequest()
	_, err := s.svc.Create(s.ctx, "donor-b@example.com", DonationCreateInput{
		RequesterName: "B",
		RecipientName: "Other Patient",
		BloodGroup:    "B+",
	})
	s.Require().NoError(err)

	s.Run("user sees only own requests", func() {
		result, err := s.svc.ListMine(s.ctx, "owner@example.com", nil)
		s.Require().NoError(err)
		s.Len(result, 1)
		s.Equal(mine.ID, result[0].ID)
	})

	s.Run("moderator listing sees all", func() {
		result, err := s.svc.ListAll(s.ctx, nil)
		s.Require().NoError(err)
		s.Len(result, 2)
	})

	s.Run("moderator listing filters by status", func() {
		_, err := s.svc.SetStatus(s.ctx, "owner@example.com", mine.ID, domain.DonationStatusDone)
		s.Require().NoError(err)

		done := domain.DonationStatusDone
		result, err := s.svc.ListAll(s.ctx, &done)
		s.Require().NoError(err)
		s.Len(result, 1)
		s.Equal(mine.ID, result[0].ID)
	})

	s.Run("status filter validates input", func() {
		bogus := domain.DonationStatus("bogus")
		_, err := s.svc.ListAll(s.ctx, &bogus)
		s.True(apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func (s *DonationServiceSuite) TestPublicVisibility() {
	req := s.newRequest()

	s.Run("public listing shows pending without contact details", func() {
		result, err := s.svc.ListPublic(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(result, 1)
		s.Empty(result[0].RequesterEmail)
		s.Nil(result[0].Donor)
	})

	s.Run("public get scopes contact details", func() {
		got, err := s.svc.GetPublic(s.ctx, req.ID)
		s.Require().NoError(err)
		s.Empty(got.RequesterEmail)
		s.Nil(got.Donor)
	})

	s.Run("claimed request disappears from public view", func() {
		_, err := s.svc.Claim(s.ctx, "donor-b@example.com", req.ID, "Donor B")
		s.Require().NoError(err)

		result, err := s.svc.ListPublic(s.ctx)
		s.Require().NoError(err)
		s.Empty(result)

		_, err = s.svc.GetPublic(s.ctx, req.ID)
		s.True(apperrors.IsCode(err, "NOT_FOUND"))
	})

	s.Run("owner still sees the full record", func() {
		got, err := s.svc.Get(s.ctx, "owner@example.com", req.ID)
		s.Require().NoError(err)
		s.Equal("owner@example.com", got.RequesterEmail)
		s.NotNil(got.Donor)
	})

	s.Run("unrelated donor cannot read the full record", func() {
		_, err := s.svc.Get(s.ctx, "donor-c@example.com", req.ID)
		s.True(apperrors.IsCode(err, "FORBIDDEN"))
	})
}

func (s *DonationServiceSuite) TestRecentListing() {
	first := s.newRequest()
	second := s.newRequest()
	third := s.newRequest()

	result, err := s.svc.ListRecentMine(s.ctx, "owner@example.com", 2)
	s.Require().NoError(err)
	s.Require().Len(result, 2)
	s.Equal(third.ID, result[0].ID)
	s.Equal(second.ID, result[1].ID)
	_ = first
}
