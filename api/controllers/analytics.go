package controllers

import (
	"net/http"

	"github.com/yahyarahhawi/StitchGuard-db/api/responses"
	"github.com/yahyarahhawi/StitchGuard-db/api/validators"
	"github.com/yahyarahhawi/StitchGuard-db/internal/analytics"
	pkgerrors "github.com/yahyarahhawi/StitchGuard-db/pkg/errors"
	"github.com/yahyarahhawi/StitchGuard-db/pkg/logger"
)

func parseDateRange(r *http.Request) (analytics.DateRange, error) {
	start, err := validators.ParseQueryDate(r, "start_date")
	if err != nil {
		return analytics.DateRange{}, err
	}
	end, err := validators.ParseQueryDate(r, "end_date")
	if err != nil {
		return analytics.DateRange{}, err
	}
	return analytics.DateRange{Start: start, End: end}, nil
}

// AnalyticsOverview returns the factory-wide rollup for an optional date range.
func AnalyticsOverview(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		dateRange, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.GetOverview(r.Context(), dateRange)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// AnalyticsUserStats returns one sewer's inspection tally.
func AnalyticsUserStats(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		userID, err := parseIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dateRange, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.GetUserStats(r.Context(), userID, dateRange)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// AnalyticsFlawFrequency ranks flaw types by occurrence.
func AnalyticsFlawFrequency(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		dateRange, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.GetFlawFrequency(r.Context(), dateRange, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AnalyticsDailyTrends returns per-day inspection counts over a trailing window.
func AnalyticsDailyTrends(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		// bounds re-checked by the service so direct callers get the same policy
		days, err := validators.ParseQueryInt(r, "days", 0, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trends, err := svc.GetDailyTrends(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trends)
	}
}
