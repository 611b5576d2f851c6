package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/services"
)

func answerInputs(answers []answerRequest) []services.AnswerInput {
	out := make([]services.AnswerInput, 0, len(answers))
	for _, a := range answers {
		out = append(out, services.AnswerInput{QuestionID: a.QuestionID, Value: a.Answer})
	}
	return out
}

func (rt *Router) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req submitResponseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	response, err := rt.responses.Submit(r.Context(), req.SurveyID, answerInputs(req.Answers))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCreated(w, "Response submitted successfully", response)
}

func (rt *Router) handleSubmitResponseByLink(w http.ResponseWriter, r *http.Request) {
	var req submitByLinkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	response, err := rt.responses.SubmitByLink(r.Context(), chi.URLParam(r, "linkId"), answerInputs(req.Answers))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCreated(w, "Response submitted successfully", response)
}

func (rt *Router) handleListResponses(w http.ResponseWriter, r *http.Request) {
	views, err := rt.responses.ListByOrganisation(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Responses fetched successfully", views)
}

func (rt *Router) handleListResponsesBySurvey(w http.ResponseWriter, r *http.Request) {
	views, err := rt.responses.ListBySurvey(r.Context(), organisationScope(r), chi.URLParam(r, "surveyId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Responses fetched successfully", views)
}
