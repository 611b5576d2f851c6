package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

type ResponseStore interface {
	GetSurvey(ctx context.Context, id string) (*models.Survey, error)
	GetSurveyByLink(ctx context.Context, linkID string) (*models.Survey, error)
	ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error)
	AddResponse(ctx context.Context, r *models.Response) error
	ListResponsesBySurvey(ctx context.Context, surveyID string) ([]*models.Response, error)
	ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error)
}

// AnswerInput mirrors one answered question in the submission payload.
type AnswerInput struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"answer"`
}

type ResponseService struct {
	store ResponseStore
	now   func() time.Time
	idGen func() string
}

func NewResponseService(store ResponseStore) *ResponseService {
	return &ResponseService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// Submit records a full survey submission from an external respondent. The
// organisation scope is taken from the survey itself, text answers are
// classified on the way in, and answers that reference unknown questions are
// dropped rather than rejected.
func (s *ResponseService) Submit(ctx context.Context, surveyID string, answers []AnswerInput) (*models.Response, error) {
	if surveyID == "" || len(answers) == 0 {
		return nil, NewInvalidError("Survey ID and responses are required.")
	}
	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if survey == nil {
		return nil, NewNotFoundError("Survey not found.")
	}
	if survey.Status == models.SurveyClosed {
		return nil, NewConflictError("survey is closed and no longer accepts responses")
	}

	questionByID := make(map[string]models.Question, len(survey.Questions))
	for _, q := range survey.Questions {
		questionByID[q.ID] = q
	}

	stored := make([]models.Answer, 0, len(answers))
	for _, a := range answers {
		question, ok := questionByID[a.QuestionID]
		if !ok {
			continue
		}
		answer := models.Answer{QuestionID: a.QuestionID, Value: a.Value}
		if question.Type == models.QuestionText {
			_, answer.Sentiment = AnalyzeSentiment(a.Value)
		}
		stored = append(stored, answer)
	}
	if len(stored) == 0 {
		return nil, NewInvalidError("no answers matched the survey's questions")
	}

	response := &models.Response{
		ID:             s.idGen(),
		OrganisationID: survey.OrganisationID,
		SurveyID:       surveyID,
		Answers:        stored,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddResponse(ctx, response); err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return response, nil
}

// SubmitByLink resolves a shareable link token and submits against the
// survey behind it.
func (s *ResponseService) SubmitByLink(ctx context.Context, linkID string, answers []AnswerInput) (*models.Response, error) {
	if linkID == "" {
		return nil, NewInvalidError("link id is required")
	}
	survey, err := s.store.GetSurveyByLink(ctx, linkID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if survey == nil {
		return nil, NewNotFoundError("Survey not found.")
	}
	return s.Submit(ctx, survey.ID, answers)
}

// AnswerView is an answer joined with its question for display.
type AnswerView struct {
	QuestionID   string           `json:"questionId"`
	Answer       string           `json:"answer"`
	Sentiment    models.Sentiment `json:"sentiment,omitempty"`
	QuestionText string           `json:"questionText"`
	Options      []string         `json:"options"`
}

// ResponseView is a response with its answers joined to question text.
type ResponseView struct {
	ID        string       `json:"id"`
	SurveyID  string       `json:"surveyId"`
	Responses []AnswerView `json:"responses"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ListBySurvey returns every response to one survey with answers joined to
// the survey's question text.
func (s *ResponseService) ListBySurvey(ctx context.Context, organisationID, surveyID string) ([]ResponseView, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if survey == nil {
		return nil, NewNotFoundError("Survey not found.")
	}
	if survey.OrganisationID != organisationID {
		return nil, NewForbiddenError("survey belongs to another organisation")
	}
	responses, err := s.store.ListResponsesBySurvey(ctx, surveyID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	views := make([]ResponseView, 0, len(responses))
	for _, r := range responses {
		views = append(views, joinQuestions(r, survey))
	}
	return views, nil
}

// ListByOrganisation returns every response across the organisation's
// surveys, each joined with its survey's question text.
func (s *ResponseService) ListByOrganisation(ctx context.Context, organisationID string) ([]ResponseView, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	surveys, err := s.store.ListSurveys(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	surveyByID := make(map[string]*models.Survey, len(surveys))
	for _, sv := range surveys {
		surveyByID[sv.ID] = sv
	}
	responses, err := s.store.ListResponses(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	views := make([]ResponseView, 0, len(responses))
	for _, r := range responses {
		survey, ok := surveyByID[r.SurveyID]
		if !ok {
			continue
		}
		views = append(views, joinQuestions(r, survey))
	}
	return views, nil
}

func joinQuestions(r *models.Response, survey *models.Survey) ResponseView {
	questionByID := make(map[string]models.Question, len(survey.Questions))
	for _, q := range survey.Questions {
		questionByID[q.ID] = q
	}
	answers := make([]AnswerView, 0, len(r.Answers))
	for _, a := range r.Answers {
		view := AnswerView{
			QuestionID:   a.QuestionID,
			Answer:       a.Value,
			Sentiment:    a.Sentiment,
			QuestionText: "Question not found",
			Options:      []string{},
		}
		if q, ok := questionByID[a.QuestionID]; ok {
			view.QuestionText = q.Text
			if q.Options != nil {
				view.Options = q.Options
			}
		}
		answers = append(answers, view)
	}
	return ResponseView{ID: r.ID, SurveyID: r.SurveyID, Responses: answers, CreatedAt: r.CreatedAt}
}
