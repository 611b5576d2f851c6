package services

import (
	"context"
	"testing"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

type fakeResponseStore struct {
	surveys   map[string]*models.Survey
	responses []*models.Response
}

func newFakeResponseStore(surveys ...*models.Survey) *fakeResponseStore {
	s := &fakeResponseStore{surveys: map[string]*models.Survey{}}
	for _, sv := range surveys {
		s.surveys[sv.ID] = sv
	}
	return s
}

func (s *fakeResponseStore) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	if sv, ok := s.surveys[id]; ok {
		copied := *sv
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeResponseStore) GetSurveyByLink(ctx context.Context, linkID string) (*models.Survey, error) {
	for _, sv := range s.surveys {
		if sv.LinkID == linkID {
			copied := *sv
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeResponseStore) ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error) {
	out := []*models.Survey{}
	for _, sv := range s.surveys {
		if sv.OrganisationID == organisationID {
			copied := *sv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeResponseStore) AddResponse(ctx context.Context, r *models.Response) error {
	copied := *r
	s.responses = append(s.responses, &copied)
	return nil
}

func (s *fakeResponseStore) ListResponsesBySurvey(ctx context.Context, surveyID string) ([]*models.Response, error) {
	out := []*models.Response{}
	for _, r := range s.responses {
		if r.SurveyID == surveyID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeResponseStore) ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error) {
	out := []*models.Response{}
	for _, r := range s.responses {
		if r.OrganisationID == organisationID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func testSurvey() *models.Survey {
	return &models.Survey{
		ID:             "S1",
		OrganisationID: "O1",
		Title:          "Onboarding",
		Status:         models.SurveyActive,
		LinkID:         "link1234",
		Questions: []models.Question{
			{ID: "Q1", Text: "How was setup?", Type: models.QuestionText},
			{ID: "Q2", Text: "Rate us", Type: models.QuestionRating},
		},
	}
}

func TestResponseSubmit(t *testing.T) {
	store := newFakeResponseStore(testSurvey())
	svc := NewResponseService(store)

	r, err := svc.Submit(context.Background(), "S1", []AnswerInput{
		{QuestionID: "Q1", Value: "Setup was easy and fast"},
		{QuestionID: "Q2", Value: "5"},
		{QuestionID: "ghost", Value: "ignored"},
	})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if r.OrganisationID != "O1" {
		t.Fatalf("organisation must come from the survey, got %q", r.OrganisationID)
	}
	if len(r.Answers) != 2 {
		t.Fatalf("unknown-question answers must be dropped, got %d", len(r.Answers))
	}
	if r.Answers[0].Sentiment != models.SentimentPositive {
		t.Fatalf("text answers must be classified, got %s", r.Answers[0].Sentiment)
	}
	if r.Answers[1].Sentiment != "" {
		t.Fatalf("rating answers must not carry sentiment, got %s", r.Answers[1].Sentiment)
	}
}

func TestResponseSubmitClosedSurvey(t *testing.T) {
	sv := testSurvey()
	sv.Status = models.SurveyClosed
	svc := NewResponseService(newFakeResponseStore(sv))

	_, err := svc.Submit(context.Background(), "S1", []AnswerInput{{QuestionID: "Q1", Value: "hi"}})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("closed survey must reject submissions, got %v", err)
	}
}

func TestResponseSubmitNoMatchedAnswers(t *testing.T) {
	svc := NewResponseService(newFakeResponseStore(testSurvey()))
	_, err := svc.Submit(context.Background(), "S1", []AnswerInput{{QuestionID: "ghost", Value: "x"}})
	if err == nil {
		t.Fatalf("expected error when no answer matches a question")
	}
}

func TestResponseSubmitByLink(t *testing.T) {
	svc := NewResponseService(newFakeResponseStore(testSurvey()))
	r, err := svc.SubmitByLink(context.Background(), "link1234", []AnswerInput{{QuestionID: "Q2", Value: "4"}})
	if err != nil {
		t.Fatalf("SubmitByLink error: %v", err)
	}
	if r.SurveyID != "S1" {
		t.Fatalf("wrong survey resolved: %s", r.SurveyID)
	}
	if _, err := svc.SubmitByLink(context.Background(), "unknown", nil); err == nil {
		t.Fatalf("unknown link must not resolve")
	}
}

func TestResponseListBySurvey(t *testing.T) {
	store := newFakeResponseStore(testSurvey())
	svc := NewResponseService(store)
	if _, err := svc.Submit(context.Background(), "S1", []AnswerInput{
		{QuestionID: "Q1", Value: "loved it"},
		{QuestionID: "Q2", Value: "5"},
	}); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	views, err := svc.ListBySurvey(context.Background(), "O1", "S1")
	if err != nil {
		t.Fatalf("ListBySurvey error: %v", err)
	}
	if len(views) != 1 || len(views[0].Responses) != 2 {
		t.Fatalf("unexpected views: %+v", views)
	}
	if views[0].Responses[0].QuestionText != "How was setup?" {
		t.Fatalf("answers must join question text, got %q", views[0].Responses[0].QuestionText)
	}
	if views[0].Responses[0].Options == nil {
		t.Fatalf("options must be an empty slice, not nil")
	}

	_, err = svc.ListBySurvey(context.Background(), "O2", "S1")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorForbidden {
		t.Fatalf("cross-organisation listing must be forbidden, got %v", err)
	}
}

func TestResponseListByOrganisation(t *testing.T) {
	store := newFakeResponseStore(testSurvey())
	svc := NewResponseService(store)
	for i := 0; i < 2; i++ {
		if _, err := svc.Submit(context.Background(), "S1", []AnswerInput{{QuestionID: "Q2", Value: "3"}}); err != nil {
			t.Fatalf("Submit error: %v", err)
		}
	}
	views, err := svc.ListByOrganisation(context.Background(), "O1")
	if err != nil {
		t.Fatalf("ListByOrganisation error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
}
