package tokens

import (
	"time"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
	"github.com/queuedesk/queuedesk-backend/pkg/enums"
)

// TokenDTO is the transport shape used everywhere a token crosses the API.
// It never carries the OTP; OwnTokenDTO is the applicant's own channel.
type TokenDTO struct {
	ID                int64             `json:"id"`
	ApplicantID       int64             `json:"applicant_id"`
	TokenNo           string            `json:"token_no"`
	Status            enums.TokenStatus `json:"status"`
	SlotTS            time.Time         `json:"slot_ts"`
	IsPriority        bool              `json:"is_priority"`
	FinishState       enums.FinishState `json:"finish_state"`
	FinishRequestedAt *time.Time        `json:"finish_requested_at,omitempty"`
	OTPVerifiedAt     *time.Time        `json:"otp_verified_at,omitempty"`
	CancelledAt       *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// OwnTokenDTO adds the verification code for the token holder's own reads.
type OwnTokenDTO struct {
	TokenDTO
	OTPCode string `json:"otp_code"`
}

// VerifyFinishRequest is the staff-side payload matching a spoken code
// against an applicant's active token.
type VerifyFinishRequest struct {
	ApplicantID int64  `json:"applicant_id" validate:"required,gt=0"`
	OTP         string `json:"otp" validate:"required"`
}

// CancelRequest proves identity with the Aadhaar plus the printed token code.
type CancelRequest struct {
	AadhaarNumber string `json:"aadhaar_number" validate:"required"`
	TokenNo       string `json:"token_no" validate:"required"`
}

func fromModel(m *models.Token) *TokenDTO {
	if m == nil {
		return nil
	}
	return &TokenDTO{
		ID:                m.ID,
		ApplicantID:       m.ApplicantID,
		TokenNo:           m.TokenNo,
		Status:            m.Status,
		SlotTS:            m.SlotTS,
		IsPriority:        m.IsPriority,
		FinishState:       m.FinishState(),
		FinishRequestedAt: m.FinishRequestedAt,
		OTPVerifiedAt:     m.OTPVerifiedAt,
		CancelledAt:       m.CancelledAt,
		CreatedAt:         m.CreatedAt,
	}
}

func ownFromModel(m *models.Token) *OwnTokenDTO {
	if m == nil {
		return nil
	}
	return &OwnTokenDTO{
		TokenDTO: *fromModel(m),
		OTPCode:  m.OTPCode,
	}
}
