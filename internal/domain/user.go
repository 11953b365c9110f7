package domain

import "time"

// Role enumerates platform roles. Every registered account starts as a donor;
// only an admin can promote to volunteer or admin.
type Role string

const (
	RoleDonor     Role = "donor"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// ValidUserStatus reports whether s is a known account status.
func ValidUserStatus(s UserStatus) bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// User is the domain model for registered accounts. Email is the global
// identifier; donation requests reference their owner by email.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	BloodGroup   string
	District     string
	Upazila      string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
