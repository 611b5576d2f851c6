package api

import (
	"context"
	"sync"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// memoryStore keeps everything in maps behind one RWMutex. It backs tests
// and local development; production uses the SQLite store.
type memoryStore struct {
	mu            sync.RWMutex
	organisations map[string]*models.Organisation
	users         map[string]*models.User
	surveys       map[string]*models.Survey
	responses     []*models.Response
	feedbacks     map[string]*models.Feedback
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		organisations: map[string]*models.Organisation{},
		users:         map[string]*models.User{},
		surveys:       map[string]*models.Survey{},
		responses:     []*models.Response{},
		feedbacks:     map[string]*models.Feedback{},
	}
}

func (s *memoryStore) AddOrganisation(ctx context.Context, o *models.Organisation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *o
	s.organisations[o.ID] = &copied
	return nil
}

func (s *memoryStore) GetOrganisation(ctx context.Context, id string) (*models.Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.organisations[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, nil
}

func (s *memoryStore) FindOrganisation(ctx context.Context, name, country, size string) (*models.Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.organisations {
		if o.Name == name && o.Country == country && o.Size == size {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) AddUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *memoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (s *memoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) UpdateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *memoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *memoryStore) ListUsers(ctx context.Context, organisationID string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.User{}
	for _, u := range s.users {
		if u.OrganisationID == organisationID {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryStore) AddSurvey(ctx context.Context, sv *models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sv
	s.surveys[sv.ID] = &copied
	return nil
}

func (s *memoryStore) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sv, ok := s.surveys[id]; ok {
		copied := *sv
		return &copied, nil
	}
	return nil, nil
}

func (s *memoryStore) GetSurveyByLink(ctx context.Context, linkID string) (*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sv := range s.surveys {
		if sv.LinkID == linkID {
			copied := *sv
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) UpdateSurvey(ctx context.Context, sv *models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sv
	s.surveys[sv.ID] = &copied
	return nil
}

func (s *memoryStore) DeleteSurvey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.surveys, id)
	return nil
}

func (s *memoryStore) ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Survey{}
	for _, sv := range s.surveys {
		if sv.OrganisationID == organisationID {
			copied := *sv
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryStore) AddResponse(ctx context.Context, r *models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *r
	s.responses = append(s.responses, &copied)
	return nil
}

func (s *memoryStore) ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Response{}
	for _, r := range s.responses {
		if r.OrganisationID == organisationID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryStore) ListResponsesBySurvey(ctx context.Context, surveyID string) ([]*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Response{}
	for _, r := range s.responses {
		if r.SurveyID == surveyID {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryStore) AddFeedback(ctx context.Context, f *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *f
	s.feedbacks[f.ID] = &copied
	return nil
}

func (s *memoryStore) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.feedbacks[id]; ok {
		copied := *f
		return &copied, nil
	}
	return nil, nil
}

func (s *memoryStore) DeleteFeedback(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.feedbacks, id)
	return nil
}

func (s *memoryStore) ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Feedback{}
	for _, f := range s.feedbacks {
		if f.OrganisationID == organisationID {
			copied := *f
			out = append(out, &copied)
		}
	}
	return out, nil
}
