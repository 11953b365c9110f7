package events

import "github.com/one-blood/donation-service/internal/domain"

// EventType identifies lifecycle events published in-process.
type EventType string

const (
	EventDonationCreated       EventType = "donation.created"
	EventDonationClaimed       EventType = "donation.claimed"
	EventDonationStatusChanged EventType = "donation.status_changed"
	EventUserRoleChanged       EventType = "user.role_changed"
)

// Event is the envelope carried to subscribers.
type Event struct {
	Type       EventType
	ActorEmail string
	Payload    any
}

// DonationCreatedPayload describes a freshly created request.
type DonationCreatedPayload struct {
	RequestID  string
	BloodGroup string
	District   string
}

// DonationClaimedPayload describes a donor committing to a request.
type DonationClaimedPayload struct {
	RequestID string
	Donor     domain.DonorInfo
}

// DonationStatusChangedPayload describes a terminal transition.
type DonationStatusChangedPayload struct {
	RequestID string
	From      domain.DonationStatus
	To        domain.DonationStatus
}

// UserRoleChangedPayload describes an admin changing an account role.
type UserRoleChangedPayload struct {
	UserID string
	Role   domain.Role
}
