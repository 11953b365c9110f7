package dto

import (
	"time"

	"github.com/one-blood/donation-service/internal/domain"
)

// RoleUpdateRequest is the payload for an admin role change.
type RoleUpdateRequest struct {
	Role string `json:"role"`
}

// ProfileUpdateRequest carries self-editable profile fields.
type ProfileUpdateRequest struct {
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	BloodGroup string `json:"blood_group"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
}

// UserResponse is the wire form of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	BloodGroup string    `json:"blood_group"`
	District   string    `json:"district"`
	Upazila    string    `json:"upazila"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its wire form.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Avatar:     user.Avatar,
		BloodGroup: user.BloodGroup,
		District:   user.District,
		Upazila:    user.Upazila,
		Role:       string(user.Role),
		Status:     string(user.Status),
		CreatedAt:  user.CreatedAt,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}
