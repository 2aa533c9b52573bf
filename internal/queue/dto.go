package queue

import (
	"time"

	"github.com/queuedesk/queuedesk-backend/pkg/enums"
)

// ApplicationEntry is one row of the admin queue views: token, holder and
// rank, with the Aadhaar in display grouping and never the OTP.
type ApplicationEntry struct {
	TokenID             int64             `json:"token_id"`
	ApplicantID         int64             `json:"applicant_id"`
	TokenNo             string            `json:"token_no"`
	Status              enums.TokenStatus `json:"status"`
	SlotTS              time.Time         `json:"slot_ts"`
	IsPriority          bool              `json:"is_priority"`
	RankInSlot          *int              `json:"rank_in_slot,omitempty"`
	FinishState         enums.FinishState `json:"finish_state"`
	FullName            string            `json:"full_name"`
	AadhaarNumber       string            `json:"aadhaar_number"`
	LLApplicationNumber string            `json:"ll_application_number"`
	Phone               *string           `json:"phone,omitempty"`
	VehicleClasses      []string          `json:"vehicle_classes"`
	Disabilities        []string          `json:"disabilities"`
	CreatedAt           time.Time         `json:"created_at"`
}

// ListParams filters the applications listing. The zero value lists today's
// ACTIVE tokens.
type ListParams struct {
	Status string
	SlotTS *time.Time
	Limit  int
	Offset int
}

// TodayStats aggregates token counts for the office's current day.
type TodayStats struct {
	Active    int64 `json:"active"`
	Finished  int64 `json:"finished"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}
