package applicants

import (
	"time"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
)

// RegisterRequest is the payload accepted by POST /users.
type RegisterRequest struct {
	FullName            string   `json:"full_name" validate:"required,min=2,max=120"`
	AadhaarNumber       string   `json:"aadhaar_number" validate:"required"`
	LLApplicationNumber string   `json:"ll_application_number" validate:"required,min=3,max=40"`
	Phone               *string  `json:"phone,omitempty" validate:"omitempty,min=8,max=15"`
	Password            string   `json:"password" validate:"required,min=8,max=72"`
	VehicleClasses      []string `json:"vehicle_classes" validate:"omitempty,dive,min=1,max=20"`
	Disabilities        []string `json:"disabilities" validate:"omitempty,dive,min=1,max=60"`
}

// ApplicantDTO is the transport shape that omits the password hash. The
// Aadhaar rides in normalized digit form; admin listings format it.
type ApplicantDTO struct {
	ID                  int64     `json:"id"`
	FullName            string    `json:"full_name"`
	AadhaarNumber       string    `json:"aadhaar_number"`
	LLApplicationNumber string    `json:"ll_application_number"`
	Phone               *string   `json:"phone,omitempty"`
	IsAdmin             bool      `json:"is_admin"`
	VehicleClasses      []string  `json:"vehicle_classes"`
	Disabilities        []string  `json:"disabilities"`
	CreatedAt           time.Time `json:"created_at"`
}

func FromModel(a *models.Applicant, vehicleClasses, disabilities []string) *ApplicantDTO {
	if a == nil {
		return nil
	}
	if vehicleClasses == nil {
		vehicleClasses = []string{}
	}
	if disabilities == nil {
		disabilities = []string{}
	}
	return &ApplicantDTO{
		ID:                  a.ID,
		FullName:            a.FullName,
		AadhaarNumber:       a.AadhaarNumber,
		LLApplicationNumber: a.LLApplicationNumber,
		Phone:               a.Phone,
		IsAdmin:             a.IsAdmin,
		VehicleClasses:      vehicleClasses,
		Disabilities:        disabilities,
		CreatedAt:           a.CreatedAt,
	}
}
