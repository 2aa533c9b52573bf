package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/queuedesk/queuedesk-backend/internal/slots"
	"github.com/queuedesk/queuedesk-backend/pkg/config"
	"github.com/queuedesk/queuedesk-backend/pkg/db"
	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
	"github.com/queuedesk/queuedesk-backend/pkg/enums"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/metrics"
	"github.com/queuedesk/queuedesk-backend/pkg/types"
)

const issueAttempts = 3

// Service defines the behavior needed by the tokens controllers.
type Service interface {
	Issue(ctx context.Context, applicantID int64) (*OwnTokenDTO, error)
	Active(ctx context.Context, applicantID int64) (*OwnTokenDTO, error)
	RequestFinish(ctx context.Context, applicantID int64) (*OwnTokenDTO, error)
	VerifyFinish(ctx context.Context, req VerifyFinishRequest) (*TokenDTO, error)
	Cancel(ctx context.Context, req CancelRequest) (*TokenDTO, error)
}

type applicantStore interface {
	FindByAadhaar(ctx context.Context, aadhaar string) (*models.Applicant, error)
	HasDisability(ctx context.Context, applicantID int64) (bool, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo       *Repository
	selections *slots.Repository
	applicants applicantStore
	tx         TxRunner
	queueCfg   config.QueueConfig
	metrics    *metrics.QueueMetrics
	now        func() time.Time
}

// ServiceParams bundles the dependencies required to build a tokens service.
type ServiceParams struct {
	Repo          *Repository
	SelectionRepo *slots.Repository
	ApplicantRepo applicantStore
	TxRunner      TxRunner
	QueueConfig   config.QueueConfig
	Metrics       *metrics.QueueMetrics
	Now           func() time.Time
}

// NewService constructs a token lifecycle service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("tokens repository is required")
	}
	if params.SelectionRepo == nil {
		return nil, fmt.Errorf("selection repository is required")
	}
	if params.ApplicantRepo == nil {
		return nil, fmt.Errorf("applicant repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		selections: params.SelectionRepo,
		applicants: params.ApplicantRepo,
		tx:         params.TxRunner,
		queueCfg:   params.QueueConfig,
		metrics:    params.Metrics,
		now:        now,
	}, nil
}

// Issue hands out the applicant's queue token for their selected slot. The
// call is idempotent: an existing ACTIVE token is returned as-is.
func (s *service) Issue(ctx context.Context, applicantID int64) (*OwnTokenDTO, error) {
	selection, err := s.selections.FindByApplicant(ctx, applicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "no slot selected")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load slot selection")
	}

	if existing, err := s.repo.ActiveForApplicant(ctx, applicantID); err == nil {
		return ownFromModel(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check active token")
	}

	priority, err := s.applicants.HasDisability(ctx, applicantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check priority tags")
	}

	var issued *models.Token
	for attempt := 0; attempt < issueAttempts; attempt++ {
		token, err := s.tryIssue(ctx, applicantID, selection.SlotTS, priority)
		if err == nil {
			issued = token
			break
		}

		switch {
		case db.IsUniqueViolation(err, db.ConstraintOneActivePerPerson):
			// lost the race; the winner's token is the answer
			s.metrics.IncIssuanceConflict()
			winner, qerr := s.repo.ActiveForApplicant(ctx, applicantID)
			if qerr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, qerr, "load winning token")
			}
			return ownFromModel(winner), nil
		case db.IsUniqueViolation(err, db.ConstraintTokenNoPerSlot):
			// another issuer took this display code; recompute and retry
			s.metrics.IncIssuanceConflict()
			continue
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue token")
		}
	}
	if issued == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a display code")
	}

	s.metrics.IncTokensIssued()
	return ownFromModel(issued), nil
}

func (s *service) tryIssue(ctx context.Context, applicantID int64, slotTS time.Time, priority bool) (*models.Token, error) {
	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}

	var token *models.Token
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		maxSuffix, err := repo.MaxSuffixInSlot(ctx, slotTS, s.queueCfg.TokenPrefix)
		if err != nil {
			return err
		}
		token = &models.Token{
			ApplicantID: applicantID,
			TokenNo:     nextDisplayCode(s.queueCfg.TokenPrefix, maxSuffix),
			Status:      enums.TokenStatusActive,
			SlotTS:      slotTS,
			IsPriority:  priority,
			OTPCode:     otp,
			CreatedAt:   s.now().UTC(),
		}
		return repo.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Active returns the applicant's own ACTIVE token, OTP included.
func (s *service) Active(ctx context.Context, applicantID int64) (*OwnTokenDTO, error) {
	token, err := s.repo.ActiveForApplicant(ctx, applicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active token")
	}
	return ownFromModel(token), nil
}

// RequestFinish stamps finish_requested_at on the applicant's ACTIVE token.
// The first request wins; repeats return the token unchanged.
func (s *service) RequestFinish(ctx context.Context, applicantID int64) (*OwnTokenDTO, error) {
	token, err := s.repo.ActiveForApplicant(ctx, applicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active token")
	}
	if !validTransition("request_finish", token.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "token is not active")
	}

	if err := s.repo.SetFinishRequested(ctx, token.ID, s.now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stamp finish request")
	}

	reloaded, err := s.repo.FindByID(ctx, token.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload token")
	}
	return ownFromModel(reloaded), nil
}

// VerifyFinish matches a spoken code against the applicant's ACTIVE token and
// finishes the visit on an exact match.
func (s *service) VerifyFinish(ctx context.Context, req VerifyFinishRequest) (*TokenDTO, error) {
	token, err := s.repo.ActiveForApplicant(ctx, req.ApplicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load active token")
	}
	if !validTransition("verify_finish", token.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "token is not active")
	}

	code := normalizeDigits(req.OTP)
	if len(code) != OTPLength || code != token.OTPCode {
		s.metrics.IncInvalidOTP()
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCode, "invalid verification code")
	}

	rows, err := s.repo.MarkFinished(ctx, token.ID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finish token")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "token is no longer active")
	}

	reloaded, err := s.repo.FindByID(ctx, token.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload token")
	}
	s.metrics.IncVisitsFinished()
	return fromModel(reloaded), nil
}

// Cancel retires an ACTIVE token on proof of identity and frees the slot seat.
func (s *service) Cancel(ctx context.Context, req CancelRequest) (*TokenDTO, error) {
	aadhaar, err := types.NormalizeAadhaar(req.AadhaarNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid aadhaar number")
	}

	applicant, err := s.applicants.FindByAadhaar(ctx, aadhaar)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "token not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicant")
	}

	token, err := s.repo.FindByApplicantAndTokenNo(ctx, applicant.ID, strings.TrimSpace(req.TokenNo))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "token not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load token")
	}
	if !validTransition("cancel", token.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "token is already "+strings.ToLower(string(token.Status)))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.MarkCancelled(ctx, token.ID, s.now().UTC())
		if err != nil {
			return err
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "token is no longer active")
		}
		_, err = s.selections.WithTx(tx).DeleteForSlot(ctx, applicant.ID, token.SlotTS)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel token")
	}

	reloaded, err := s.repo.FindByID(ctx, token.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload token")
	}
	s.metrics.IncVisitsCancelled()
	return fromModel(reloaded), nil
}
