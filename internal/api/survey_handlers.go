package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/middleware"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/services"
)

func surveyInputFromQuestions(title, description, status string, questions []questionRequest) services.SurveyInput {
	input := services.SurveyInput{Title: title, Description: description, Status: status}
	for _, q := range questions {
		input.Questions = append(input.Questions, services.QuestionInput{Text: q.Text, Type: q.Type, Options: q.Options})
	}
	return input
}

func (rt *Router) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	uid, _ := middleware.UserIDFromContext(r.Context())
	survey, err := rt.surveys.Create(r.Context(), organisationScope(r), uid,
		surveyInputFromQuestions(req.Title, req.Description, "", req.Questions))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCreated(w, "Survey created successfully", survey)
}

func (rt *Router) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := rt.surveys.List(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Surveys fetched successfully", surveys)
}

func (rt *Router) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := rt.surveys.Get(r.Context(), organisationScope(r), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Survey fetched successfully", survey)
}

func (rt *Router) handleSurveyByLink(w http.ResponseWriter, r *http.Request) {
	survey, err := rt.surveys.GetByLink(r.Context(), chi.URLParam(r, "linkId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Survey fetched successfully", survey)
}

func (rt *Router) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyUpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	survey, err := rt.surveys.Update(r.Context(), organisationScope(r), chi.URLParam(r, "id"),
		surveyInputFromQuestions(req.Title, req.Description, req.Status, req.Questions))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Survey updated successfully", survey)
}

func (rt *Router) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if err := rt.surveys.Delete(r.Context(), organisationScope(r), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Survey deleted successfully", nil)
}
