package controllers

import (
	"net/http"

	"github.com/queuedesk/queuedesk-backend/api/middleware"
	"github.com/queuedesk/queuedesk-backend/api/responses"
	"github.com/queuedesk/queuedesk-backend/api/validators"
	"github.com/queuedesk/queuedesk-backend/internal/applicants"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
)

// RegisterApplicant handles onboarding a new applicant with their licence
// application details.
func RegisterApplicant(svc applicants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applicants service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body applicants.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applicant, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*applicants.ApplicantDTO{
			"applicant": applicant,
		})
	}
}

// ApplicantMe returns the authenticated applicant's own profile.
func ApplicantMe(svc applicants.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applicants service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applicant, err := svc.Get(r.Context(), middleware.ApplicantIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*applicants.ApplicantDTO{
			"applicant": applicant,
		})
	}
}
