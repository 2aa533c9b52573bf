package applicants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/queuedesk/queuedesk-backend/pkg/config"
	"github.com/queuedesk/queuedesk-backend/pkg/db"
	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/security"
	"github.com/queuedesk/queuedesk-backend/pkg/types"
)

// Service defines the behavior needed by the applicants controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*ApplicantDTO, error)
	Get(ctx context.Context, applicantID int64) (*ApplicantDTO, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo        *Repository
	tx          TxRunner
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an applicants service.
type ServiceParams struct {
	Repo           *Repository
	TxRunner       TxRunner
	PasswordConfig config.PasswordConfig
}

// NewService constructs a registration service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("applicants repository is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:        params.Repo,
		tx:          params.TxRunner,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*ApplicantDTO, error) {
	aadhaar, err := types.NormalizeAadhaar(req.AadhaarNumber)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid aadhaar number")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	applicant := &models.Applicant{
		FullName:            strings.TrimSpace(req.FullName),
		AadhaarNumber:       aadhaar,
		LLApplicationNumber: strings.TrimSpace(req.LLApplicationNumber),
		Phone:               req.Phone,
		PasswordHash:        hash,
	}

	vehicleClasses := dedupeTags(req.VehicleClasses)
	disabilities := dedupeTags(req.Disabilities)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, applicant); err != nil {
			return err
		}
		if err := repo.AddVehicleClasses(ctx, applicant.ID, vehicleClasses); err != nil {
			return err
		}
		return repo.AddDisabilities(ctx, applicant.ID, disabilities)
	})
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, db.ConstraintUniqueAadhaar):
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "aadhaar number already registered")
		case db.IsUniqueViolation(err, db.ConstraintUniqueLLNumber):
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "ll application number already registered")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create applicant")
		}
	}

	return FromModel(applicant, vehicleClasses, disabilities), nil
}

func (s *service) Get(ctx context.Context, applicantID int64) (*ApplicantDTO, error) {
	applicant, err := s.repo.FindByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "applicant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicant")
	}
	vehicleClasses, err := s.repo.ListVehicleClasses(ctx, applicantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vehicle classes")
	}
	disabilities, err := s.repo.ListDisabilities(ctx, applicantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load disabilities")
	}
	return FromModel(applicant, vehicleClasses, disabilities), nil
}

func dedupeTags(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
