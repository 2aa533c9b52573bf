package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/queuedesk/queuedesk-backend/internal/applicants"
	pkgauth "github.com/queuedesk/queuedesk-backend/pkg/auth"
	"github.com/queuedesk/queuedesk-backend/pkg/config"
	"github.com/queuedesk/queuedesk-backend/pkg/db/models"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/security"
	"github.com/queuedesk/queuedesk-backend/pkg/types"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type applicantRepository interface {
	FindByAadhaar(ctx context.Context, aadhaar string) (*models.Applicant, error)
	ListVehicleClasses(ctx context.Context, applicantID int64) ([]string, error)
	ListDisabilities(ctx context.Context, applicantID int64) ([]string, error)
}

type service struct {
	applicants applicantRepository
	jwtCfg     config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	ApplicantRepo applicantRepository
	JWTConfig     config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ApplicantRepo == nil {
		return nil, fmt.Errorf("applicant repository is required")
	}
	return &service{
		applicants: params.ApplicantRepo,
		jwtCfg:     params.JWTConfig,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	aadhaar, err := types.NormalizeAadhaar(req.AadhaarNumber)
	if err != nil {
		// malformed aadhaar answers the same as a wrong password
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	applicant, err := s.applicants.FindByAadhaar(ctx, aadhaar)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load applicant")
	}

	ok, err := security.VerifyPassword(req.Password, applicant.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		ApplicantID: applicant.ID,
		FullName:    applicant.FullName,
		IsAdmin:     applicant.IsAdmin,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	vehicleClasses, err := s.applicants.ListVehicleClasses(ctx, applicant.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vehicle classes")
	}
	disabilities, err := s.applicants.ListDisabilities(ctx, applicant.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load disabilities")
	}

	return &LoginResponse{
		AccessToken: accessToken,
		Applicant:   applicants.FromModel(applicant, vehicleClasses, disabilities),
	}, nil
}
