package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

type SurveyStore interface {
	AddSurvey(ctx context.Context, sv *models.Survey) error
	GetSurvey(ctx context.Context, id string) (*models.Survey, error)
	GetSurveyByLink(ctx context.Context, linkID string) (*models.Survey, error)
	UpdateSurvey(ctx context.Context, sv *models.Survey) error
	DeleteSurvey(ctx context.Context, id string) error
	ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error)
}

type SurveyService struct {
	store SurveyStore
	now   func() time.Time
	idGen func() string
}

func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// shortID returns n characters of a dash-stripped UUID, used for shareable
// link tokens.
func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// QuestionInput is one question in a create/update payload.
type QuestionInput struct {
	Text    string   `json:"questionText"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
}

// SurveyInput is the sanitized create/update payload.
type SurveyInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions"`
	Status      string          `json:"status"`
}

func buildQuestions(inputs []QuestionInput) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(inputs))
	for _, q := range inputs {
		if strings.TrimSpace(q.Text) == "" {
			return nil, NewInvalidError("questionText is required for every question")
		}
		qt := models.QuestionType(q.Type)
		if qt == "" {
			qt = models.QuestionText
		}
		switch qt {
		case models.QuestionText, models.QuestionRating, models.QuestionChoice:
		default:
			return nil, NewInvalidError("question type must be one of text, rating, choice")
		}
		if qt == models.QuestionChoice && len(q.Options) == 0 {
			return nil, NewInvalidError("options are required for choice type questions")
		}
		questions = append(questions, models.Question{
			ID:      uuid.NewString(),
			Text:    strings.TrimSpace(q.Text),
			Type:    qt,
			Options: q.Options,
		})
	}
	return questions, nil
}

// Create stores a new survey for the organisation. Every survey starts
// active and gets a fresh shareable link token.
func (s *SurveyService) Create(ctx context.Context, organisationID, createdBy string, input SurveyInput) (*models.Survey, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, NewInvalidError("title is required")
	}
	if len(input.Questions) == 0 {
		return nil, NewInvalidError("at least one question is required in the survey")
	}
	questions, err := buildQuestions(input.Questions)
	if err != nil {
		return nil, err
	}

	survey := &models.Survey{
		ID:             s.idGen(),
		OrganisationID: organisationID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Questions:      questions,
		Status:         models.SurveyActive,
		LinkID:         shortID(16),
		CreatedBy:      createdBy,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddSurvey(ctx, survey); err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return survey, nil
}

func (s *SurveyService) Get(ctx context.Context, organisationID, id string) (*models.Survey, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	survey, err := s.store.GetSurvey(ctx, id)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if survey == nil {
		return nil, NewNotFoundError("Survey not found")
	}
	if survey.OrganisationID != organisationID {
		return nil, NewForbiddenError("survey belongs to another organisation")
	}
	return survey, nil
}

// GetByLink resolves a shareable link token for an external respondent. No
// organisation scope is required; the token itself is the capability.
func (s *SurveyService) GetByLink(ctx context.Context, linkID string) (*models.Survey, error) {
	if linkID == "" {
		return nil, NewInvalidError("link id is required")
	}
	survey, err := s.store.GetSurveyByLink(ctx, linkID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if survey == nil {
		return nil, NewNotFoundError("Survey not found")
	}
	return survey, nil
}

func (s *SurveyService) List(ctx context.Context, organisationID string) ([]*models.Survey, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	surveys, err := s.store.ListSurveys(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return surveys, nil
}

// Update replaces title, description, questions and status. The link token
// and creation timestamp never change.
func (s *SurveyService) Update(ctx context.Context, organisationID, id string, input SurveyInput) (*models.Survey, error) {
	survey, err := s.Get(ctx, organisationID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) != "" {
		survey.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		survey.Description = strings.TrimSpace(input.Description)
	}
	if len(input.Questions) > 0 {
		questions, err := buildQuestions(input.Questions)
		if err != nil {
			return nil, err
		}
		survey.Questions = questions
	}
	if input.Status != "" {
		switch models.SurveyStatus(input.Status) {
		case models.SurveyActive, models.SurveyClosed:
			survey.Status = models.SurveyStatus(input.Status)
		default:
			return nil, NewInvalidError("status must be active or closed")
		}
	}
	if err := s.store.UpdateSurvey(ctx, survey); err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return survey, nil
}

func (s *SurveyService) Delete(ctx context.Context, organisationID, id string) error {
	if _, err := s.Get(ctx, organisationID, id); err != nil {
		return err
	}
	if err := s.store.DeleteSurvey(ctx, id); err != nil {
		return NewDataUnavailableError(err)
	}
	return nil
}
