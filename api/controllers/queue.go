package controllers

import (
	"net/http"

	"github.com/queuedesk/queuedesk-backend/api/responses"
	"github.com/queuedesk/queuedesk-backend/api/validators"
	"github.com/queuedesk/queuedesk-backend/internal/queue"
	pkgerrors "github.com/queuedesk/queuedesk-backend/pkg/errors"
	"github.com/queuedesk/queuedesk-backend/pkg/logger"
)

const maxListLimit = 500

// ListApplications is the admin listing of tokens with holder details and
// in-slot rank. Defaults to today's ACTIVE queue.
func ListApplications(svc queue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "queue service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := queue.ListParams{
			Status: r.URL.Query().Get("status"),
			Limit:  limit,
			Offset: offset,
		}
		slotTS, err := validators.ParseQueryTime(r, "slot_ts")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !slotTS.IsZero() {
			utc := slotTS.UTC()
			params.SlotTS = &utc
		}

		entries, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]queue.ApplicationEntry{
			"applications": entries,
		})
	}
}

// NextApplication returns the token at the front of today's earliest live
// slot queue.
func NextApplication(svc queue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "queue service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := svc.Next(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*queue.ApplicationEntry{
			"application": entry,
		})
	}
}

// SlotQueue returns the ranked ACTIVE queue for one slot.
func SlotQueue(svc queue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "queue service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slotTS, err := validators.ParseQueryTime(r, "slot_ts")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.SlotQueue(r.Context(), slotTS.UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]queue.ApplicationEntry{
			"queue": entries,
		})
	}
}

// TodayStats reports the day's token counts by status.
func TodayStats(svc queue.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "queue service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.TodayStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*queue.TodayStats{
			"stats": stats,
		})
	}
}
