package api

import "net/http"

func (rt *Router) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := rt.dashboard.Summary(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Dashboard summary generated successfully", summary)
}

func (rt *Router) handleDashboardAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := rt.dashboard.Analytics(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Analytics summary generated successfully", analytics)
}

func (rt *Router) handleDailyCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := rt.dashboard.DailyCategories(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Daily category counts generated successfully", rows)
}

func (rt *Router) handleOrganisationOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := rt.dashboard.Organisation(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Organisation overview fetched successfully", overview)
}
