package queue

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/queuedesk/queuedesk-backend/pkg/enums"
)

// rankedActiveSQL numbers every ACTIVE token within its slot. Priority tokens
// come first; everyone else queues by when they picked the slot, falling back
// to token creation for holders whose selection row is gone.
const rankedActiveSQL = `
SELECT t.id AS token_id,
       ROW_NUMBER() OVER (
           PARTITION BY t.slot_ts
           ORDER BY t.is_priority DESC,
                    COALESCE(ss.created_at, t.created_at) ASC,
                    t.created_at ASC,
                    t.id ASC
       ) AS rank_in_slot
FROM tokens t
LEFT JOIN slot_selections ss
       ON ss.applicant_id = t.applicant_id AND ss.slot_ts = t.slot_ts
WHERE t.status = 'ACTIVE'`

// Filter narrows the applications listing. An empty Status means ACTIVE;
// StatusAll lifts the status restriction entirely.
type Filter struct {
	Status string
	SlotTS *time.Time
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

// StatusAll disables status filtering in a Filter.
const StatusAll = "ALL"

type applicationRow struct {
	TokenID             int64
	ApplicantID         int64
	TokenNo             string
	Status              enums.TokenStatus
	SlotTS              time.Time
	IsPriority          bool
	RankInSlot          *int
	FinishRequestedAt   *time.Time
	OTPVerifiedAt       *time.Time
	FullName            string
	AadhaarNumber       string
	LLApplicationNumber string
	Phone               *string
	CreatedAt           time.Time
}

// Repository runs the read-side queue queries over tokens, applicants and
// slot selections.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a queue repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListApplications returns tokens joined with their holders, ordered by slot
// and in-slot rank. Rank is only defined for ACTIVE tokens; finished and
// cancelled rows carry a NULL rank and sort after the live queue of their slot.
func (r *Repository) ListApplications(ctx context.Context, f Filter) ([]applicationRow, error) {
	query := `
WITH ranked AS (` + rankedActiveSQL + `
)
SELECT t.id AS token_id,
       t.applicant_id,
       t.token_no,
       t.status,
       t.slot_ts,
       t.is_priority,
       t.finish_requested_at,
       t.otp_verified_at,
       t.created_at,
       a.full_name,
       a.aadhaar_number,
       a.ll_application_number,
       a.phone,
       ranked.rank_in_slot
FROM tokens t
JOIN applicants a ON a.id = t.applicant_id
LEFT JOIN ranked ON ranked.token_id = t.id
WHERE 1 = 1`

	args := []any{}
	if f.Status != StatusAll {
		status := f.Status
		if status == "" {
			status = enums.TokenStatusActive.String()
		}
		query += " AND t.status = ?"
		args = append(args, status)
	}
	if f.SlotTS != nil {
		query += " AND t.slot_ts = ?"
		args = append(args, *f.SlotTS)
	} else if !f.From.IsZero() {
		query += " AND t.slot_ts >= ? AND t.slot_ts < ?"
		args = append(args, f.From, f.To)
	}

	query += `
ORDER BY t.slot_ts ASC,
         ranked.rank_in_slot IS NULL,
         ranked.rank_in_slot ASC,
         t.created_at ASC,
         t.id ASC`

	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}

	var rows []applicationRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByStatus tallies tokens per status for slots inside [from, to).
func (r *Repository) CountByStatus(ctx context.Context, from, to time.Time) (map[enums.TokenStatus]int64, error) {
	var rows []struct {
		Status enums.TokenStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT status, COUNT(*) AS count FROM tokens WHERE slot_ts >= ? AND slot_ts < ? GROUP BY status`, from, to).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.TokenStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
