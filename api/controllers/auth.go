package controllers

import (
	"net/http"

	"github.com/queuedesk/queuedesk-backend/api/responses"
	"github.com/queuedesk/queuedesk-backend/api/validators"
	"github.com/queuedesk/queuedesk-backend/internal/auth"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
)

// AuthLogin exchanges Aadhaar plus password for a bearer token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
