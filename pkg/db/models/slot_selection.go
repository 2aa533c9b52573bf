package models

import "time"

// SlotSelection records an applicant's chosen visit slot. At most one row per
// applicant; the slot-capacity trigger bounds rows per slot_ts at commit time.
// CreatedAt doubles as the queue-ranking timestamp, so replacing a selection
// keeps the original position only when the slot itself is unchanged.
type SlotSelection struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ApplicantID int64     `gorm:"column:applicant_id;not null;uniqueIndex:slot_selections_applicant_id"`
	SlotTS      time.Time `gorm:"column:slot_ts;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SlotSelection) TableName() string { return "slot_selections" }
