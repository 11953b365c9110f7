package domain

import "time"

// DonationStatus enumerates lifecycle states for donation requests.
type DonationStatus string

const (
	DonationStatusPending    DonationStatus = "pending"
	DonationStatusInProgress DonationStatus = "inprogress"
	DonationStatusDone       DonationStatus = "done"
	DonationStatusCanceled   DonationStatus = "canceled"
)

// ValidDonationStatus reports whether s is a known status.
func ValidDonationStatus(s DonationStatus) bool {
	switch s {
	case DonationStatusPending, DonationStatusInProgress, DonationStatusDone, DonationStatusCanceled:
		return true
	}
	return false
}

// TerminalDonationStatus reports whether s ends the lifecycle.
func TerminalDonationStatus(s DonationStatus) bool {
	return s == DonationStatusDone || s == DonationStatusCanceled
}

// CanTransition reports whether the status change from -> to is legal.
// pending may move to inprogress (a donor claims it) or straight to a
// terminal state; inprogress may only move to a terminal state.
func CanTransition(from, to DonationStatus) bool {
	switch from {
	case DonationStatusPending:
		return to == DonationStatusInProgress || TerminalDonationStatus(to)
	case DonationStatusInProgress:
		return TerminalDonationStatus(to)
	}
	return false
}

// DonorInfo identifies the donor who claimed a request. Both fields are
// empty while the request is pending and set atomically with the
// pending -> inprogress transition.
type DonorInfo struct {
	Name  string
	Email string
}

// DonationRequest is the aggregate for a blood donation request.
type DonationRequest struct {
	ID                string
	RequesterEmail    string
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
	Status            DonationStatus
	Donor             *DonorInfo
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Claimed reports whether a donor has committed to the request.
func (r *DonationRequest) Claimed() bool {
	return r.Donor != nil
}
