package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Feedback submission is public: external respondents post against the
// organisation they were given a link for.
func (rt *Router) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	feedback, err := rt.feedback.Submit(r.Context(), req.OrganisationID, req.Message, req.Category)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCreated(w, "Feedback submitted successfully", feedback)
}

func (rt *Router) handleListFeedbacks(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := rt.feedback.List(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Feedbacks fetched successfully", feedbacks)
}

func (rt *Router) handleDeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if err := rt.feedback.Delete(r.Context(), organisationScope(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Feedback deleted successfully", nil)
}
