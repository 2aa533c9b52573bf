package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/queuedesk/queuedesk-backend/pkg/db"
	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/metrics"
)

// Service defines the behavior needed by the slots controller.
type Service interface {
	SelectSlot(ctx context.Context, applicantID int64, slotTS time.Time) (*SelectionDTO, error)
	Availability(ctx context.Context, from, to time.Time) ([]AvailabilityItem, error)
}

type applicantFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Applicant, error)
}

type activeTokenChecker interface {
	HasActiveToken(ctx context.Context, applicantID int64) (bool, error)
}

type service struct {
	repo       *Repository
	applicants applicantFinder
	tokens     activeTokenChecker
	metrics    *metrics.QueueMetrics
}

// ServiceParams bundles the dependencies required to build a slots service.
type ServiceParams struct {
	Repo          *Repository
	ApplicantRepo applicantFinder
	TokenChecker  activeTokenChecker
	Metrics       *metrics.QueueMetrics
}

// NewService constructs a slot selection service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("slots repository is required")
	}
	if params.ApplicantRepo == nil {
		return nil, fmt.Errorf("applicant repository is required")
	}
	if params.TokenChecker == nil {
		return nil, fmt.Errorf("token checker is required")
	}
	return &service{
		repo:       params.Repo,
		applicants: params.ApplicantRepo,
		tokens:     params.TokenChecker,
		metrics:    params.Metrics,
	}, nil
}

func (s *service) SelectSlot(ctx context.Context, applicantID int64, slotTS time.Time) (*SelectionDTO, error) {
	if _, err := s.applicants.FindByID(ctx, applicantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "applicant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicant")
	}

	active, err := s.tokens.HasActiveToken(ctx, applicantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check active token")
	}
	if active {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an active token already exists; finish or cancel it first")
	}

	selection, err := s.repo.Upsert(ctx, applicantID, slotTS.UTC())
	if err != nil {
		if db.IsCapacityViolation(err) {
			s.metrics.IncSlotFull()
			return nil, pkgerrors.Wrap(pkgerrors.CodeSlotFull, err, "slot is full").
				WithDetails(map[string]any{"slot_ts": slotTS.UTC(), "capacity": Capacity})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store slot selection")
	}

	return selectionFromModel(selection), nil
}

func (s *service) Availability(ctx context.Context, from, to time.Time) ([]AvailabilityItem, error) {
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "availability window must end after it starts")
	}

	counts, err := s.repo.CountBySlot(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count slot selections")
	}

	items := make([]AvailabilityItem, 0, len(counts))
	for _, c := range counts {
		remaining := Capacity - c.Count
		if remaining < 0 {
			remaining = 0
		}
		items = append(items, AvailabilityItem{SlotTS: c.SlotTS, Booked: c.Count, Remaining: remaining})
	}
	return items, nil
}
