package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"

	"github.com/one-blood/donation-service/internal/domain"
	"github.com/one-blood/donation-service/internal/repository"
	apperrors "github.com/one-blood/donation-service/pkg/util"
)

type GuardsSuite struct {
	suite.Suite
	app    *fiber.App
	users  *repository.MemoryUserRepository
	tokens *TokenManager
}

func TestGuardsSuite(t *testing.T) {
	suite.Run(t, new(GuardsSuite))
}

func (s *GuardsSuite) SetupTest() {
	s.users = repository.NewMemoryUserRepository()
	s.tokens = NewTokenManager("guard-test-secret", 3)

	guards := NewGuards(NewRoleResolver(s.users))
	middleware := NewMiddleware(s.tokens)

	s.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	s.app.Use(middleware.Handle)
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	s.app.Get("/any", guards.RequireAuthenticated(), ok)
	s.app.Get("/admin", guards.RequireAdmin(), ok)
	s.app.Get("/moderator", guards.RequireAdminOrVolunteer(), ok)
}

func (s *GuardsSuite) addUser(email string, role domain.Role) *domain.User {
	user := &domain.User{
		Name:   "Test User",
		Email:  email,
		Role:   role,
		Status: domain.UserStatusActive,
	}
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *GuardsSuite) tokenFor(email string) string {
	token, _, err := s.tokens.Issue(email, "")
	s.Require().NoError(err)
	return token
}

func (s *GuardsSuite) get(path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	return resp.StatusCode
}

func (s *GuardsSuite) TestRequireAuthenticated() {
	s.addUser("donor@example.com", domain.RoleDonor)

	s.Run("no token is unauthorized", func() {
		s.Equal(http.StatusUnauthorized, s.get("/any", ""))
	})

	s.Run("malformed header is unauthorized", func() {
		req := httptest.NewRequest(http.MethodGet, "/any", nil)
		req.Header.Set("Authorization", "Basic abc")
		resp, err := s.app.Test(req)
		s.Require().NoError(err)
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("garbage token is unauthorized", func() {
		s.Equal(http.StatusUnauthorized, s.get("/any", "not-a-jwt"))
	})

	s.Run("valid token passes", func() {
		s.Equal(http.StatusOK, s.get("/any", s.tokenFor("donor@example.com")))
	})
}

func (s *GuardsSuite) TestRequireAdmin() {
	s.addUser("donor@example.com", domain.RoleDonor)
	s.addUser("volunteer@example.com", domain.RoleVolunteer)
	s.addUser("admin@example.com", domain.RoleAdmin)

	s.Run("donor is forbidden", func() {
		s.Equal(http.StatusForbidden, s.get("/admin", s.tokenFor("donor@example.com")))
	})
	s.Run("volunteer is forbidden", func() {
		s.Equal(http.StatusForbidden, s.get("/admin", s.tokenFor("volunteer@example.com")))
	})
	s.Run("admin passes", func() {
		s.Equal(http.StatusOK, s.get("/admin", s.tokenFor("admin@example.com")))
	})
	s.Run("authentication is checked before authorization", func() {
		s.Equal(http.StatusUnauthorized, s.get("/admin", ""))
	})
}

func (s *GuardsSuite) TestRequireAdminOrVolunteer() {
	s.addUser("donor@example.com", domain.RoleDonor)
	s.addUser("volunteer@example.com", domain.RoleVolunteer)
	s.addUser("admin@example.com", domain.RoleAdmin)

	s.Run("admin passes", func() {
		s.Equal(http.StatusOK, s.get("/moderator", s.tokenFor("admin@example.com")))
	})
	s.Run("volunteer passes", func() {
		s.Equal(http.StatusOK, s.get("/moderator", s.tokenFor("volunteer@example.com")))
	})
	s.Run("donor is forbidden", func() {
		s.Equal(http.StatusForbidden, s.get("/moderator", s.tokenFor("donor@example.com")))
	})
}

func (s *GuardsSuite) TestDeletedUserWithValidToken() {
	// A token issued before registration completes, or after account
	// removal, authenticates but carries no role.
	token := s.tokenFor("ghost@example.com")

	s.Equal(http.StatusOK, s.get("/any", token))
	s.Equal(http.StatusForbidden, s.get("/admin", token))
	s.Equal(http.StatusForbidden, s.get("/moderator", token))
}

func (s *GuardsSuite) TestRoleResolvedFreshNotFromToken() {
	user := s.addUser("promoted@example.com", domain.RoleDonor)
	token := s.tokenFor("promoted@example.com")

	s.Equal(http.StatusForbidden, s.get("/moderator", token))

	s.Require().NoError(s.users.UpdateRole(context.Background(), user.ID, domain.RoleVolunteer))

	// Same token, next request: the promotion is already visible.
	s.Equal(http.StatusOK, s.get("/moderator", token))
}
