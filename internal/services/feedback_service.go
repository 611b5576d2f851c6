package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

type FeedbackStore interface {
	AddFeedback(ctx context.Context, f *models.Feedback) error
	GetFeedback(ctx context.Context, id string) (*models.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) error
	ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error)
}

type FeedbackService struct {
	store FeedbackStore
	now   func() time.Time
	idGen func() string
}

func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

// Submit stores one piece of free-text feedback. The category defaults to
// "other" at write time and the message is classified immediately, so the
// record reaches the aggregation layer fully tagged.
func (s *FeedbackService) Submit(ctx context.Context, organisationID, message, category string) (*models.Feedback, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, NewInvalidError("Organisation and message are required.")
	}
	if category == "" {
		category = string(models.CategoryOther)
	}
	if !models.ValidCategory(category) {
		return nil, NewInvalidError("category must be one of the defined feedback categories")
	}
	_, sentiment := AnalyzeSentiment(message)

	feedback := &models.Feedback{
		ID:             s.idGen(),
		OrganisationID: organisationID,
		Message:        message,
		Category:       models.Category(category),
		Sentiment:      sentiment,
		CreatedAt:      s.now(),
	}
	if err := s.store.AddFeedback(ctx, feedback); err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return feedback, nil
}

// List returns the organisation's feedback, newest first.
func (s *FeedbackService) List(ctx context.Context, organisationID string) ([]*models.Feedback, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	feedbacks, err := s.store.ListFeedbacks(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	return mostRecentFeedbacks(feedbacks, len(feedbacks)), nil
}

func (s *FeedbackService) Delete(ctx context.Context, organisationID, id string) error {
	if organisationID == "" {
		return NewScopeRequiredError()
	}
	feedback, err := s.store.GetFeedback(ctx, id)
	if err != nil {
		return NewDataUnavailableError(err)
	}
	if feedback == nil {
		return NewNotFoundError("Feedback not found.")
	}
	if feedback.OrganisationID != organisationID {
		return NewForbiddenError("feedback belongs to another organisation")
	}
	if err := s.store.DeleteFeedback(ctx, id); err != nil {
		return NewDataUnavailableError(err)
	}
	return nil
}
