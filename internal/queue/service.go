package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/queuedesk/queuedesk-backend/pkg/config"
	"github.com/queuedesk/queuedesk-backend/pkg/enums"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/types"
)

// Service defines the admin-side queue reads: applications listings, the
// next-up token, per-slot queues and the day's totals.
type Service interface {
	List(ctx context.Context, params ListParams) ([]ApplicationEntry, error)
	Next(ctx context.Context) (*ApplicationEntry, error)
	SlotQueue(ctx context.Context, slotTS time.Time) ([]ApplicationEntry, error)
	TodayStats(ctx context.Context) (*TodayStats, error)
}

type tagLoader interface {
	TagsForApplicants(ctx context.Context, ids []int64) (map[int64][]string, map[int64][]string, error)
}

type service struct {
	repo       *Repository
	applicants tagLoader
	queueCfg   config.QueueConfig
	now        func() time.Time
}

// ServiceParams bundles the dependencies required to build a queue service.
type ServiceParams struct {
	Repo          *Repository
	ApplicantRepo tagLoader
	QueueConfig   config.QueueConfig
	Now           func() time.Time
}

// NewService constructs a queue read service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("queue repository is required")
	}
	if params.ApplicantRepo == nil {
		return nil, fmt.Errorf("applicant repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		applicants: params.ApplicantRepo,
		queueCfg:   params.QueueConfig,
		now:        now,
	}, nil
}

const defaultListLimit = 100

func (s *service) List(ctx context.Context, params ListParams) ([]ApplicationEntry, error) {
	status := params.Status
	if status != "" && status != StatusAll {
		if _, err := enums.ParseTokenStatus(status); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter")
		}
	}

	filter := Filter{
		Status: status,
		SlotTS: params.SlotTS,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.SlotTS == nil {
		from, to, err := s.todayWindow()
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = from, to
	}

	rows, err := s.repo.ListApplications(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list applications")
	}
	return s.assemble(ctx, rows)
}

// Next returns the first ranked ACTIVE token of today's earliest slot with a
// live queue.
func (s *service) Next(ctx context.Context) (*ApplicationEntry, error) {
	from, to, err := s.todayWindow()
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListApplications(ctx, Filter{From: from, To: to, Limit: 1})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load next application")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active applications in the queue")
	}
	entries, err := s.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *service) SlotQueue(ctx context.Context, slotTS time.Time) ([]ApplicationEntry, error) {
	if slotTS.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slot_ts is required")
	}
	rows, err := s.repo.ListApplications(ctx, Filter{SlotTS: &slotTS})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load slot queue")
	}
	return s.assemble(ctx, rows)
}

func (s *service) TodayStats(ctx context.Context) (*TodayStats, error) {
	from, to, err := s.todayWindow()
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count tokens")
	}
	stats := &TodayStats{
		Active:    counts[enums.TokenStatusActive],
		Finished:  counts[enums.TokenStatusFinished],
		Cancelled: counts[enums.TokenStatusCancelled],
	}
	stats.Total = stats.Active + stats.Finished + stats.Cancelled
	return stats, nil
}

// todayWindow is the office-local calendar day containing now, as a
// half-open UTC interval.
func (s *service) todayWindow() (time.Time, time.Time, error) {
	loc, err := s.queueCfg.Location()
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve office timezone")
	}
	local := s.now().In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC(), nil
}

func (s *service) assemble(ctx context.Context, rows []applicationRow) ([]ApplicationEntry, error) {
	ids := make([]int64, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if !seen[row.ApplicantID] {
			seen[row.ApplicantID] = true
			ids = append(ids, row.ApplicantID)
		}
	}
	vehicleClasses, disabilities, err := s.applicants.TagsForApplicants(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicant tags")
	}

	entries := make([]ApplicationEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ApplicationEntry{
			TokenID:             row.TokenID,
			ApplicantID:         row.ApplicantID,
			TokenNo:             row.TokenNo,
			Status:              row.Status,
			SlotTS:              row.SlotTS.UTC(),
			IsPriority:          row.IsPriority,
			RankInSlot:          row.RankInSlot,
			FinishState:         finishState(row),
			FullName:            row.FullName,
			AadhaarNumber:       types.FormatAadhaar(row.AadhaarNumber),
			LLApplicationNumber: row.LLApplicationNumber,
			Phone:               row.Phone,
			VehicleClasses:      vehicleClasses[row.ApplicantID],
			Disabilities:        disabilities[row.ApplicantID],
			CreatedAt:           row.CreatedAt.UTC(),
		})
	}
	return entries, nil
}

func finishState(row applicationRow) enums.FinishState {
	switch {
	case row.OTPVerifiedAt != nil:
		return enums.FinishStateVerified
	case row.FinishRequestedAt != nil:
		return enums.FinishStateRequested
	default:
		return enums.FinishStateNone
	}
}
