package controllers

import (
	"net/http"
	"time"

	"github.com/queuedesk/queuedesk-backend/api/middleware"
	"github.com/queuedesk/queuedesk-backend/api/responses"
	"github.com/queuedesk/queuedesk-backend/api/validators"
	"github.com/queuedesk/queuedesk-backend/internal/slots"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
)

// SelectSlot books or moves the authenticated applicant's visit slot.
func SelectSlot(svc slots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "slots service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body slots.SelectSlotRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slotTS, err := time.Parse(time.RFC3339, body.SlotTS)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "slot_ts must be an RFC3339 timestamp"))
			return
		}

		selection, err := svc.SelectSlot(r.Context(), middleware.ApplicantIDFromContext(r.Context()), slotTS.UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*slots.SelectionDTO{
			"selection": selection,
		})
	}
}

// SlotAvailability reports booked and remaining seats for slots inside a
// caller-supplied window.
func SlotAvailability(svc slots.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "slots service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if from.IsZero() || to.IsZero() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "from and to query parameters are required"))
			return
		}

		items, err := svc.Availability(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]slots.AvailabilityItem{
			"slots": items,
		})
	}
}
