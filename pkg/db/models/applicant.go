package models

import "time"

// Applicant is the registered identity a queue token belongs to. Aadhaar and
// the learner-licence application number are each unique across the office.
type Applicant struct {
	ID                  int64   `gorm:"primaryKey;autoIncrement"`
	FullName            string  `gorm:"column:full_name;not null"`
	AadhaarNumber       string  `gorm:"column:aadhaar_number;type:text;not null;uniqueIndex:applicants_aadhaar_number"`
	LLApplicationNumber string  `gorm:"column:ll_application_number;type:text;not null;uniqueIndex:applicants_ll_application_number"`
	Phone               *string `gorm:"column:phone"`
	PasswordHash        string  `gorm:"column:password_hash;not null"`
	IsAdmin             bool    `gorm:"column:is_admin;not null;default:false"`
	CreatedAt           time.Time
}

func (Applicant) TableName() string { return "applicants" }

// VehicleClassTag associates an applicant with a requested vehicle class.
type VehicleClassTag struct {
	ApplicantID  int64  `gorm:"column:applicant_id;primaryKey"`
	VehicleClass string `gorm:"column:vehicle_class;primaryKey"`
}

func (VehicleClassTag) TableName() string { return "applicant_vehicle_classes" }

// DisabilityTag marks an applicant for priority treatment at issuance time.
type DisabilityTag struct {
	ApplicantID int64  `gorm:"column:applicant_id;primaryKey"`
	Disability  string `gorm:"column:disability;primaryKey"`
}

func (DisabilityTag) TableName() string { return "applicant_disabilities" }
