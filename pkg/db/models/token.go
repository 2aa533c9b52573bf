package models

import (
	"time"

	"github.com/queuedesk/queuedesk-backend/pkg/enums"
)

// Token is one queue ticket: never deleted, only status-transitioned, so the
// table is the audit trail of all visits. A partial unique index allows at
// most one ACTIVE token per applicant.
type Token struct {
	ID          int64             `gorm:"primaryKey;autoIncrement"`
	ApplicantID int64             `gorm:"column:applicant_id;not null;index"`
	TokenNo     string            `gorm:"column:token_no;not null"`
	Status      enums.TokenStatus `gorm:"column:status;type:text;not null"`
	SlotTS      time.Time         `gorm:"column:slot_ts;not null;index"`
	IsPriority  bool              `gorm:"column:is_priority;not null;default:false"`
	OTPCode     string            `gorm:"column:otp_code;not null"`

	FinishRequestedAt *time.Time `gorm:"column:finish_requested_at"`
	OTPVerifiedAt     *time.Time `gorm:"column:otp_verified_at"`
	CancelledAt       *time.Time `gorm:"column:cancelled_at"`

	CreatedAt time.Time
}

func (Token) TableName() string { return "tokens" }

// FinishState derives the coarse progress label admin listings expose. OTP
// details never ride along with it.
func (t Token) FinishState() enums.FinishState {
	switch {
	case t.OTPVerifiedAt != nil:
		return enums.FinishStateVerified
	case t.FinishRequestedAt != nil:
		return enums.FinishStateRequested
	default:
		return enums.FinishStateNone
	}
}
