package api

import (
	"context"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// Store is everything the services need from persistence. Get methods return
// (nil, nil) when the record does not exist; lists come back scoped to the
// organisation.
type Store interface {
	AddOrganisation(ctx context.Context, o *models.Organisation) error
	GetOrganisation(ctx context.Context, id string) (*models.Organisation, error)
	FindOrganisation(ctx context.Context, name, country, size string) (*models.Organisation, error)

	AddUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, organisationID string) ([]*models.User, error)

	AddSurvey(ctx context.Context, sv *models.Survey) error
	GetSurvey(ctx context.Context, id string) (*models.Survey, error)
	GetSurveyByLink(ctx context.Context, linkID string) (*models.Survey, error)
	UpdateSurvey(ctx context.Context, sv *models.Survey) error
	DeleteSurvey(ctx context.Context, id string) error
	ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error)

	AddResponse(ctx context.Context, r *models.Response) error
	ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error)
	ListResponsesBySurvey(ctx context.Context, surveyID string) ([]*models.Response, error)

	AddFeedback(ctx context.Context, f *models.Feedback) error
	GetFeedback(ctx context.Context, id string) (*models.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) error
	ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error)
}

var _ Store = (*memoryStore)(nil)
