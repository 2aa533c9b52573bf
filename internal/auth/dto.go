package auth

import "github.com/queuedesk/queuedesk-backend/internal/applicants"

// LoginRequest is the payload accepted by POST /login.
type LoginRequest struct {
	AadhaarNumber string `json:"aadhaar_number" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

// LoginResponse returns the bearer token plus the applicant's own profile.
type LoginResponse struct {
	AccessToken string                   `json:"access_token"`
	Applicant   *applicants.ApplicantDTO `json:"applicant"`
}
