package dto

import (
	"time"

	"github.com/one-blood/donation-service/internal/domain"
)

// DonationRequestBody is the payload for creating or updating a request.
type DonationRequestBody struct {
	RequesterName     string `json:"requester_name"`
	RecipientName     string `json:"recipient_name"`
	RecipientDistrict string `json:"recipient_district"`
	RecipientUpazila  string `json:"recipient_upazila"`
	HospitalName      string `json:"hospital_name"`
	FullAddress       string `json:"full_address"`
	BloodGroup        string `json:"blood_group"`
	DonationDate      string `json:"donation_date"`
	DonationTime      string `json:"donation_time"`
	RequestMessage    string `json:"request_message"`
}

// ClaimRequest is the payload for claiming a pending request.
type ClaimRequest struct {
	DonorName string `json:"donor_name"`
}

// StatusUpdateRequest carries an explicit target status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// DonationRequestResponse is the wire form of a donation request. Sanitized
// views carry empty requester email and no donor block; omitempty keeps them
// off the wire entirely.
type DonationRequestResponse struct {
	ID                string     `json:"id"`
	RequesterEmail    string     `json:"requester_email,omitempty"`
	RequesterName     string     `json:"requester_name"`
	RecipientName     string     `json:"recipient_name"`
	RecipientDistrict string     `json:"recipient_district"`
	RecipientUpazila  string     `json:"recipient_upazila"`
	HospitalName      string     `json:"hospital_name"`
	FullAddress       string     `json:"full_address"`
	BloodGroup        string     `json:"blood_group"`
	DonationDate      string     `json:"donation_date"`
	DonationTime      string     `json:"donation_time"`
	RequestMessage    string     `json:"request_message"`
	DonationStatus    string     `json:"donation_status"`
	DonorName         string     `json:"donor_name,omitempty"`
	DonorEmail        string     `json:"donor_email,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewDonationRequestResponse maps the domain aggregate to its wire form.
func NewDonationRequestResponse(req *domain.DonationRequest) DonationRequestResponse {
	resp := DonationRequestResponse{
		ID:                req.ID,
		RequesterEmail:    req.RequesterEmail,
		RequesterName:     req.RequesterName,
		RecipientName:     req.RecipientName,
		RecipientDistrict: req.RecipientDistrict,
		RecipientUpazila:  req.RecipientUpazila,
		HospitalName:      req.HospitalName,
		FullAddress:       req.FullAddress,
		BloodGroup:        req.BloodGroup,
		DonationDate:      req.DonationDate,
		DonationTime:      req.DonationTime,
		RequestMessage:    req.RequestMessage,
		DonationStatus:    string(req.Status),
		CreatedAt:         req.CreatedAt,
		UpdatedAt:         req.UpdatedAt,
	}
	if req.Donor != nil {
		resp.DonorName = req.Donor.Name
		resp.DonorEmail = req.Donor.Email
	}
	return resp
}

// NewDonationRequestResponses maps a slice of aggregates.
func NewDonationRequestResponses(reqs []domain.DonationRequest) []DonationRequestResponse {
	result := make([]DonationRequestResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, NewDonationRequestResponse(&reqs[i]))
	}
	return result
}
