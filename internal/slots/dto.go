package slots

import (
	"time"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
)

// Capacity is the seat count per slot. The schema trigger enforces the same
// bound at commit time.
const Capacity = 5

// SelectSlotRequest is the payload accepted by POST /slots/select.
type SelectSlotRequest struct {
	SlotTS string `json:"slot_ts" validate:"required"`
}

// SelectionDTO is the transport shape of a stored slot selection.
type SelectionDTO struct {
	ApplicantID int64     `json:"applicant_id"`
	SlotTS      time.Time `json:"slot_ts"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AvailabilityItem reports occupancy for one slot instant.
type AvailabilityItem struct {
	SlotTS    time.Time `json:"slot_ts"`
	Booked    int       `json:"booked"`
	Remaining int       `json:"remaining"`
}

func selectionFromModel(m *models.SlotSelection) *SelectionDTO {
	if m == nil {
		return nil
	}
	return &SelectionDTO{
		ApplicantID: m.ApplicantID,
		SlotTS:      m.SlotTS,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
