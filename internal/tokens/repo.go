package tokens

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
	"github.com/queuedesk/queuedesk-backend/pkg/enums"
)

// activeOrder breaks ties if data drift ever leaves more than one ACTIVE
// token for an applicant: a token with a pending finish request wins, then
// the most recent request, then the most recent creation.
const activeOrder = "finish_requested_at IS NULL ASC, finish_requested_at DESC, created_at DESC"

// Repository exposes token persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tokens repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a token row.
func (r *Repository) Create(ctx context.Context, token *models.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// HasActiveToken reports whether the applicant currently holds an ACTIVE token.
func (r *Repository) HasActiveToken(ctx context.Context, applicantID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("applicant_id = ? AND status = ?", applicantID, enums.TokenStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ActiveForApplicant loads the applicant's ACTIVE token, applying activeOrder
// in case more than one exists.
func (r *Repository) ActiveForApplicant(ctx context.Context, applicantID int64) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND status = ?", applicantID, enums.TokenStatusActive).
		Order(activeOrder).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// MaxSuffixInSlot returns the highest numeric display-code suffix ever issued
// in the slot, across all statuses, so cancelled numbers are never reused.
func (r *Repository) MaxSuffixInSlot(ctx context.Context, slotTS time.Time, prefix string) (int, error) {
	var tokenNos []string
	err := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("slot_ts = ?", slotTS).
		Pluck("token_no", &tokenNos).Error
	if err != nil {
		return 0, err
	}
	max := 0
	for _, no := range tokenNos {
		if suffix := displaySuffix(prefix, no); suffix > max {
			max = suffix
		}
	}
	return max, nil
}

// FindByApplicantAndTokenNo loads a token by holder and display code.
func (r *Repository) FindByApplicantAndTokenNo(ctx context.Context, applicantID int64, tokenNo string) (*models.Token, error) {
	var token models.Token
	err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND token_no = ?", applicantID, tokenNo).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// SetFinishRequested stamps finish_requested_at only when unset, so the first
// request wins and repeats are no-ops.
func (r *Repository) SetFinishRequested(ctx context.Context, tokenID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("id = ? AND finish_requested_at IS NULL", tokenID).
		UpdateColumn("finish_requested_at", at).Error
}

// MarkFinished moves an ACTIVE token to FINISHED with the verification stamp.
func (r *Repository) MarkFinished(ctx context.Context, tokenID int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("id = ? AND status = ?", tokenID, enums.TokenStatusActive).
		UpdateColumns(map[string]any{
			"status":          enums.TokenStatusFinished,
			"otp_verified_at": at,
		})
	return res.RowsAffected, res.Error
}

// MarkCancelled moves an ACTIVE token to CANCELLED.
func (r *Repository) MarkCancelled(ctx context.Context, tokenID int64, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Token{}).
		Where("id = ? AND status = ?", tokenID, enums.TokenStatusActive).
		UpdateColumns(map[string]any{
			"status":       enums.TokenStatusCancelled,
			"cancelled_at": at,
		})
	return res.RowsAffected, res.Error
}

// FindByID reloads a token by primary key.
func (r *Repository) FindByID(ctx context.Context, tokenID int64) (*models.Token, error) {
	var token models.Token
	if err := r.db.WithContext(ctx).First(&token, "id = ?", tokenID).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
