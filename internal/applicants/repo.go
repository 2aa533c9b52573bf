package applicants

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
)

// Repository exposes applicant persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an applicants repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new applicant row.
func (r *Repository) Create(ctx context.Context, applicant *models.Applicant) error {
	return r.db.WithContext(ctx).Create(applicant).Error
}

// AddVehicleClasses records requested vehicle classes, ignoring duplicates.
func (r *Repository) AddVehicleClasses(ctx context.Context, applicantID int64, classes []string) error {
	if len(classes) == 0 {
		return nil
	}
	rows := make([]models.VehicleClassTag, 0, len(classes))
	for _, class := range classes {
		rows = append(rows, models.VehicleClassTag{ApplicantID: applicantID, VehicleClass: class})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// AddDisabilities records disability tags, ignoring duplicates.
func (r *Repository) AddDisabilities(ctx context.Context, applicantID int64, disabilities []string) error {
	if len(disabilities) == 0 {
		return nil
	}
	rows := make([]models.DisabilityTag, 0, len(disabilities))
	for _, d := range disabilities {
		rows = append(rows, models.DisabilityTag{ApplicantID: applicantID, Disability: d})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// FindByID loads an applicant by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := r.db.WithContext(ctx).First(&applicant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

// FindByAadhaar retrieves the applicant matching the normalized Aadhaar.
func (r *Repository) FindByAadhaar(ctx context.Context, aadhaar string) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := r.db.WithContext(ctx).Where("aadhaar_number = ?", aadhaar).First(&applicant).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

// HasDisability reports whether the applicant carries at least one disability tag.
func (r *Repository) HasDisability(ctx context.Context, applicantID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DisabilityTag{}).
		Where("applicant_id = ?", applicantID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListVehicleClasses returns the applicant's vehicle class tags.
func (r *Repository) ListVehicleClasses(ctx context.Context, applicantID int64) ([]string, error) {
	var classes []string
	err := r.db.WithContext(ctx).
		Model(&models.VehicleClassTag{}).
		Where("applicant_id = ?", applicantID).
		Order("vehicle_class ASC").
		Pluck("vehicle_class", &classes).Error
	return classes, err
}

// ListDisabilities returns the applicant's disability tags.
func (r *Repository) ListDisabilities(ctx context.Context, applicantID int64) ([]string, error) {
	var disabilities []string
	err := r.db.WithContext(ctx).
		Model(&models.DisabilityTag{}).
		Where("applicant_id = ?", applicantID).
		Order("disability ASC").
		Pluck("disability", &disabilities).Error
	return disabilities, err
}

// TagsForApplicants batch-loads both tag kinds for the supplied applicants.
func (r *Repository) TagsForApplicants(ctx context.Context, ids []int64) (map[int64][]string, map[int64][]string, error) {
	vehicleClasses := map[int64][]string{}
	disabilities := map[int64][]string{}
	if len(ids) == 0 {
		return vehicleClasses, disabilities, nil
	}

	var classRows []models.VehicleClassTag
	err := r.db.WithContext(ctx).
		Where("applicant_id IN ?", ids).
		Order("vehicle_class ASC").
		Find(&classRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range classRows {
		vehicleClasses[row.ApplicantID] = append(vehicleClasses[row.ApplicantID], row.VehicleClass)
	}

	var disabilityRows []models.DisabilityTag
	err = r.db.WithContext(ctx).
		Where("applicant_id IN ?", ids).
		Order("disability ASC").
		Find(&disabilityRows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, row := range disabilityRows {
		disabilities[row.ApplicantID] = append(disabilities[row.ApplicantID], row.Disability)
	}

	return vehicleClasses, disabilities, nil
}
