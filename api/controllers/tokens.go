package controllers

import (
	"net/http"

	"github.com/queuedesk/queuedesk-backend/api/middleware"
	"github.com/queuedesk/queuedesk-backend/api/responses"
	"github.com/queuedesk/queuedesk-backend/api/validators"
	"github.com/queuedesk/queuedesk-backend/internal/tokens"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
)

// IssueToken hands the authenticated applicant their queue token for the
// selected slot. Calling it again returns the same token.
func IssueToken(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "tokens service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Issue(r.Context(), middleware.ApplicantIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*tokens.OwnTokenDTO{
			"token": token,
		})
	}
}

// ActiveToken returns the applicant's current ACTIVE token, OTP included.
func ActiveToken(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "tokens service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Active(r.Context(), middleware.ApplicantIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*tokens.OwnTokenDTO{
			"token": token,
		})
	}
}

// RequestFinish marks the applicant's active token as awaiting OTP
// verification at the counter.
func RequestFinish(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "tokens service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.RequestFinish(r.Context(), middleware.ApplicantIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*tokens.OwnTokenDTO{
			"token": token,
		})
	}
}

// VerifyFinish is the staff-side OTP check that closes out a visit.
func VerifyFinish(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "tokens service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body tokens.VerifyFinishRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.VerifyFinish(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*tokens.TokenDTO{
			"token": token,
		})
	}
}

// CancelToken releases a token and its slot seat. Identity is proven with
// the Aadhaar plus the printed token number rather than a login.
func CancelToken(svc tokens.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "tokens service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body tokens.CancelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Cancel(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*tokens.TokenDTO{
			"token": token,
		})
	}
}
