package slots

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
)

// Repository exposes slot selection persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a slots repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Upsert stores the applicant's chosen slot, replacing any prior choice. The
// capacity trigger fires on both the insert and the slot_ts update path.
func (r *Repository) Upsert(ctx context.Context, applicantID int64, slotTS time.Time) (*models.SlotSelection, error) {
	now := time.Now().UTC()
	selection := models.SlotSelection{
		ApplicantID: applicantID,
		SlotTS:      slotTS,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "applicant_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"slot_ts":    slotTS,
				"updated_at": now,
			}),
		}).
		Create(&selection).Error
	if err != nil {
		return nil, err
	}
	return r.FindByApplicant(ctx, applicantID)
}

// FindByApplicant loads the applicant's current selection.
func (r *Repository) FindByApplicant(ctx context.Context, applicantID int64) (*models.SlotSelection, error) {
	var selection models.SlotSelection
	if err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&selection).Error; err != nil {
		return nil, err
	}
	return &selection, nil
}

// DeleteForSlot removes the applicant's selection for the given slot, freeing
// a seat. Returns the number of rows removed.
func (r *Repository) DeleteForSlot(ctx context.Context, applicantID int64, slotTS time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("applicant_id = ? AND slot_ts = ?", applicantID, slotTS).
		Delete(&models.SlotSelection{})
	return res.RowsAffected, res.Error
}

// SlotCount is the booked seat count for one slot instant.
type SlotCount struct {
	SlotTS time.Time
	Count  int
}

// CountBySlot aggregates selections per slot inside the window.
func (r *Repository) CountBySlot(ctx context.Context, from, to time.Time) ([]SlotCount, error) {
	type row struct {
		SlotTS time.Time
		Count  int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.SlotSelection{}).
		Select("slot_ts, COUNT(*) AS count").
		Where("slot_ts >= ? AND slot_ts < ?", from, to).
		Group("slot_ts").
		Order("slot_ts ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make([]SlotCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, SlotCount{SlotTS: r.SlotTS, Count: r.Count})
	}
	return counts, nil
}
