package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// stubRecordStore backs both the dashboard and report services in tests.
type stubRecordStore struct {
	surveys   []*models.Survey
	responses []*models.Response
	feedbacks []*models.Feedback
	users     []*models.User
	org       *models.Organisation
	err       error
}

func (s *stubRecordStore) ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error) {
	return s.surveys, s.err
}

func (s *stubRecordStore) ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error) {
	return s.responses, s.err
}

func (s *stubRecordStore) ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error) {
	return s.feedbacks, s.err
}

func (s *stubRecordStore) ListUsers(ctx context.Context, organisationID string) ([]*models.User, error) {
	return s.users, s.err
}

func (s *stubRecordStore) GetOrganisation(ctx context.Context, id string) (*models.Organisation, error) {
	return s.org, s.err
}

// 2026-03-20 is a Friday; the trailing 7-day window starts on Saturday.
var testNow = time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func TestDashboardSummary(t *testing.T) {
	store := &stubRecordStore{
		surveys: []*models.Survey{
			{ID: "S1", CreatedAt: at(time.March, 10, 9)},
			{ID: "S2", CreatedAt: at(time.March, 19, 9)},
		},
		responses: []*models.Response{
			{ID: "R1", SurveyID: "S1", CreatedAt: at(time.March, 19, 9)},
			{ID: "R2", SurveyID: "S1", CreatedAt: at(time.March, 20, 9)},
			{ID: "R3", SurveyID: "S2", CreatedAt: at(time.March, 20, 10)},
		},
		feedbacks: []*models.Feedback{
			{ID: "F1", Message: "love it", Category: models.CategoryProduct, Sentiment: models.SentimentPositive, CreatedAt: at(time.March, 20, 10)},
			{ID: "F2", Message: "confusing menus", Category: models.CategoryUX, Sentiment: models.SentimentNegative, CreatedAt: at(time.March, 20, 11)},
			{ID: "F3", Message: "solid", Category: models.CategoryProduct, Sentiment: models.SentimentPositive, CreatedAt: at(time.March, 18, 9)},
			{ID: "F4", Message: "old note", Category: models.CategorySupport, CreatedAt: at(time.January, 1, 9)},
		},
	}
	svc := NewDashboardService(store)
	svc.now = func() time.Time { return testNow }

	summary, err := svc.Summary(context.Background(), "O1")
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if summary.Totals.Surveys != 2 || summary.Totals.Responses != 3 || summary.Totals.Feedbacks != 4 {
		t.Fatalf("unexpected totals: %+v", summary.Totals)
	}
	if len(summary.DailyFeedbacks) != 7 {
		t.Fatalf("expected 7 daily entries, got %d", len(summary.DailyFeedbacks))
	}
	if summary.DailyFeedbacks[0].Day != "Sat" || summary.DailyFeedbacks[6].Day != "Fri" {
		t.Fatalf("unexpected day labels: %+v", summary.DailyFeedbacks)
	}
	if summary.DailyFeedbacks[6].Feedbacks != 2 {
		t.Fatalf("expected 2 feedbacks today, got %d", summary.DailyFeedbacks[6].Feedbacks)
	}
	if len(summary.SentimentAnalysis) != 2 {
		t.Fatalf("expected 2 sentiment slices (zero neutral skipped), got %+v", summary.SentimentAnalysis)
	}
	if summary.SentimentAnalysis[0].Name != "Positive" || summary.SentimentAnalysis[0].Value != 2 || summary.SentimentAnalysis[0].Color != "#47b89b" {
		t.Fatalf("unexpected positive slice: %+v", summary.SentimentAnalysis[0])
	}
	if summary.SentimentAnalysis[1].Name != "Negative" || summary.SentimentAnalysis[1].Color != "#d25871" {
		t.Fatalf("unexpected negative slice: %+v", summary.SentimentAnalysis[1])
	}
	if summary.TopTopics[0].Category != "Product" || summary.TopTopics[0].Percentage != 50 {
		t.Fatalf("unexpected top topic: %+v", summary.TopTopics[0])
	}
	if len(summary.RecentFeedbacks) != 4 {
		t.Fatalf("expected 4 recent feedbacks, got %d", len(summary.RecentFeedbacks))
	}
	if summary.RecentFeedbacks[0].Message != "confusing menus" {
		t.Fatalf("recent feedbacks not newest first: %+v", summary.RecentFeedbacks[0])
	}
	if summary.RecentFeedbacks[3].Sentiment != "Not Analyzed" {
		t.Fatalf("unanalysed feedback should read Not Analyzed, got %q", summary.RecentFeedbacks[3].Sentiment)
	}
}

func TestDashboardSummaryEmptyOrganisation(t *testing.T) {
	svc := NewDashboardService(&stubRecordStore{})
	svc.now = func() time.Time { return testNow }

	summary, err := svc.Summary(context.Background(), "O1")
	if err != nil {
		t.Fatalf("Summary error on empty data: %v", err)
	}
	if summary.Totals.Surveys != 0 || summary.Totals.Feedbacks != 0 {
		t.Fatalf("expected zero totals, got %+v", summary.Totals)
	}
	if len(summary.DailyFeedbacks) != 7 {
		t.Fatalf("empty organisation still gets 7 zero days, got %d", len(summary.DailyFeedbacks))
	}
	for _, d := range summary.DailyFeedbacks {
		if d.Feedbacks != 0 {
			t.Fatalf("expected zero counts, got %+v", d)
		}
	}
	if len(summary.SentimentAnalysis) != 0 || len(summary.TopTopics) != 0 || len(summary.RecentFeedbacks) != 0 {
		t.Fatalf("expected empty chart slices, got %+v", summary)
	}
}

func TestDashboardScopeRequired(t *testing.T) {
	svc := NewDashboardService(&stubRecordStore{})
	_, err := svc.Summary(context.Background(), "")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorScopeRequired {
		t.Fatalf("expected scope_required error, got %v", err)
	}
}

func TestDashboardStoreFailure(t *testing.T) {
	svc := NewDashboardService(&stubRecordStore{err: errors.New("disk gone")})
	_, err := svc.Summary(context.Background(), "O1")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorDataUnavailable {
		t.Fatalf("expected data_unavailable error, got %v", err)
	}
}

func TestDashboardAnalytics(t *testing.T) {
	store := &stubRecordStore{
		surveys: []*models.Survey{
			{ID: "S1", CreatedAt: at(time.March, 20, 9)}, // today
			{ID: "S2", CreatedAt: at(time.February, 1, 9)},
		},
		responses: []*models.Response{
			{ID: "R1", CreatedAt: at(time.March, 19, 9)}, // yesterday
			{ID: "R2", CreatedAt: at(time.March, 19, 10)},
			{ID: "R3", CreatedAt: at(time.March, 20, 9)}, // today
		},
		feedbacks: []*models.Feedback{
			{ID: "F1", Category: models.CategoryProduct, Sentiment: models.SentimentPositive, CreatedAt: at(time.March, 19, 9)},
			{ID: "F2", Category: models.CategoryProduct, Sentiment: models.SentimentNegative, CreatedAt: at(time.March, 20, 9)},
			{ID: "F3", Category: models.CategoryUX, Sentiment: models.SentimentPositive, CreatedAt: at(time.March, 20, 10)},
		},
	}
	svc := NewDashboardService(store)
	svc.now = func() time.Time { return testNow }

	analytics, err := svc.Analytics(context.Background(), "O1")
	if err != nil {
		t.Fatalf("Analytics error: %v", err)
	}
	if analytics.Totals.SurveysGrowthPercentage != 100 {
		t.Fatalf("1 survey today vs 0 yesterday should be 100%%, got %d", analytics.Totals.SurveysGrowthPercentage)
	}
	if analytics.Totals.ResponsesGrowthPercentage != -50 {
		t.Fatalf("1 response today vs 2 yesterday should be -50%%, got %d", analytics.Totals.ResponsesGrowthPercentage)
	}
	if len(analytics.OverviewCards) != 3 || analytics.OverviewCards[0].Title != "Total Surveys" {
		t.Fatalf("unexpected overview cards: %+v", analytics.OverviewCards)
	}
	if len(analytics.DailyFeedbacks) != 7 {
		t.Fatalf("expected 7 daily entries, got %d", len(analytics.DailyFeedbacks))
	}
	// Thursday had 1, Friday 2: chained growth against the previous entry.
	if analytics.DailyFeedbacks[6].Feedbacks != 2 || analytics.DailyFeedbacks[6].GrowthPercentage != 100 {
		t.Fatalf("unexpected chained growth: %+v", analytics.DailyFeedbacks[6])
	}
	if analytics.Sentiment.Positive != 2 || analytics.Sentiment.Negative != 1 || analytics.Sentiment.Neutral != 0 {
		t.Fatalf("unexpected sentiment counts: %+v", analytics.Sentiment)
	}
	if analytics.TopTopics[0].Category != "Product" || analytics.TopTopics[0].Count != 2 {
		t.Fatalf("unexpected top topic: %+v", analytics.TopTopics[0])
	}
	if len(analytics.RecentFeedbacks) != 3 {
		t.Fatalf("expected 3 recent feedbacks, got %d", len(analytics.RecentFeedbacks))
	}
}

func TestDailyCategories(t *testing.T) {
	store := &stubRecordStore{
		feedbacks: []*models.Feedback{
			{ID: "F1", Category: models.CategoryUX, CreatedAt: at(time.March, 19, 9)},      // Thursday
			{ID: "F2", Category: models.CategoryProduct, CreatedAt: at(time.March, 15, 9)}, // Sunday
			{ID: "F3", Category: models.CategoryProduct, CreatedAt: at(time.January, 2, 9)},
		},
	}
	svc := NewDashboardService(store)
	svc.now = func() time.Time { return testNow }

	rows, err := svc.DailyCategories(context.Background(), "O1")
	if err != nil {
		t.Fatalf("DailyCategories error: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 weekday rows, got %d", len(rows))
	}
	if rows[0].Day != "Sun" || rows[6].Day != "Sat" {
		t.Fatalf("rows must run Sunday first: %+v", rows)
	}
	if rows[0].Product != 1 {
		t.Fatalf("Sunday feedback not bucketed: %+v", rows[0])
	}
	if rows[4].Ux != 1 {
		t.Fatalf("Thursday feedback not bucketed: %+v", rows[4])
	}
	// F3 is outside the trailing week and must not appear anywhere.
	total := 0
	for _, r := range rows {
		total += r.Product + r.Ux + r.Support + r.Pricing + r.Features + r.Performance + r.Other
	}
	if total != 2 {
		t.Fatalf("expected 2 bucketed feedbacks, got %d", total)
	}
}

func TestOrganisationOverview(t *testing.T) {
	store := &stubRecordStore{
		org: &models.Organisation{ID: "O1", Name: "Acme", Country: "Rwanda", Size: "11-50"},
		users: []*models.User{
			{ID: "U1", Role: models.RoleAdmin},
			{ID: "U2", Role: models.RoleAnalyst},
			{ID: "U3", Role: models.RoleAnalyst},
			{ID: "U4", Role: models.RoleResearcher},
		},
	}
	svc := NewDashboardService(store)

	overview, err := svc.Organisation(context.Background(), "O1")
	if err != nil {
		t.Fatalf("Organisation error: %v", err)
	}
	if overview.OrganisationName != "Acme" || overview.TotalUsers != 4 {
		t.Fatalf("unexpected overview: %+v", overview)
	}
	if overview.AdminUsers != 1 || overview.Analysts != 2 || overview.Researchers != 1 {
		t.Fatalf("unexpected role counts: %+v", overview)
	}
}

func TestOrganisationNotFound(t *testing.T) {
	svc := NewDashboardService(&stubRecordStore{})
	_, err := svc.Organisation(context.Background(), "missing")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not_found error, got %v", err)
	}
}

// blockingRecordStore parks every query until the request context is
// cancelled, standing in for a stalled backend.
type blockingRecordStore struct{}

func (blockingRecordStore) ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingRecordStore) ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingRecordStore) ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingRecordStore) ListUsers(ctx context.Context, organisationID string) ([]*models.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingRecordStore) GetOrganisation(ctx context.Context, id string) (*models.Organisation, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestDashboardSummaryContextCancellation(t *testing.T) {
	svc := NewDashboardService(blockingRecordStore{})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Summary(ctx, "O1")
		errc <- err
	}()
	cancel()

	select {
	case err := <-errc:
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorDataUnavailable {
			t.Fatalf("expected data_unavailable after cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Summary must return once the context is cancelled")
	}
}
