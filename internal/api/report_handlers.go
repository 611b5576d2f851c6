package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/services"
)

// parseReportQuery reads the shared report filters off the query string.
// The period is clamped later by the service; everything else fails fast.
func parseReportQuery(r *http.Request) (reportQuery, error) {
	q := reportQuery{
		StartDate: r.URL.Query().Get("startDate"),
		EndDate:   r.URL.Query().Get("endDate"),
		Category:  r.URL.Query().Get("category"),
		Role:      r.URL.Query().Get("role"),
		SurveyID:  r.URL.Query().Get("surveyId"),
	}
	if raw := r.URL.Query().Get("period"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("period must be an integer")
		}
		q.Period = n
	}
	if err := validate.Struct(q); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return q, fmt.Errorf("%s failed on the %s rule", strings.ToLower(fe.Field()), fe.Tag())
		}
		return q, fmt.Errorf("invalid query parameters")
	}
	return q, nil
}

func (rt *Router) handleSurveyReport(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	dateRange, err := services.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	report, err := rt.reports.Surveys(r.Context(), organisationScope(r), services.SurveyReportFilter{
		Range:    dateRange,
		SurveyID: q.SurveyID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Survey report generated successfully", report)
}

func (rt *Router) handleResponseReport(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	dateRange, err := services.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	report, err := rt.reports.Responses(r.Context(), organisationScope(r), dateRange)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Response report generated successfully", report)
}

func (rt *Router) handleFeedbackReport(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	dateRange, err := services.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	report, err := rt.reports.Feedback(r.Context(), organisationScope(r), dateRange, q.Category)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Feedback report generated successfully", report)
}

func (rt *Router) handleUserReport(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	dateRange, err := services.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	report, err := rt.reports.Users(r.Context(), organisationScope(r), dateRange, q.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "User activity report generated successfully", report)
}

func (rt *Router) handleExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	q, err := parseReportQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	summary, err := rt.reports.Executive(r.Context(), organisationScope(r), q.Period)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Executive summary generated successfully", summary)
}

func (rt *Router) handleReportsHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "Reports service is healthy", map[string]interface{}{
		"availableReports": []string{
			"surveys", "responses", "feedback", "users", "executive-summary",
		},
	})
}
