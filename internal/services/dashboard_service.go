package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// DashboardStore abstracts the read-only queries the dashboard views need.
// Every list is already scoped to the organisation; the service never writes.
type DashboardStore interface {
	ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error)
	ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error)
	ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error)
	ListUsers(ctx context.Context, organisationID string) ([]*models.User, error)
	GetOrganisation(ctx context.Context, id string) (*models.Organisation, error)
}

// SentimentColors are the chart colors the dashboard frontend expects.
var SentimentColors = map[models.Sentiment]string{
	models.SentimentPositive: "#47b89b",
	models.SentimentNegative: "#d25871",
	models.SentimentNeutral:  "#EFB100",
}

type DashboardService struct {
	store DashboardStore
	now   func() time.Time
}

func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type DashboardTotals struct {
	Surveys   int `json:"surveys"`
	Responses int `json:"responses"`
	Feedbacks int `json:"feedbacks"`
}

type DayFeedbackCount struct {
	Day       string `json:"day"`
	Feedbacks int    `json:"Feedbacks"`
}

type SentimentSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type TopTopic struct {
	Category   string `json:"category"`
	Percentage int    `json:"percentage"`
}

type RecentFeedback struct {
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Sentiment string    `json:"sentiment"`
	Date      time.Time `json:"date"`
}

type DashboardSummary struct {
	Totals            DashboardTotals    `json:"totals"`
	DailyFeedbacks    []DayFeedbackCount `json:"dailyFeedbacks"`
	SentimentAnalysis []SentimentSlice   `json:"sentimentAnalysis"`
	TopTopics         []TopTopic         `json:"topTopics"`
	RecentFeedbacks   []RecentFeedback   `json:"recentFeedbacks"`
}

// Summary builds the landing dashboard: totals, a 7-day feedback series with
// day-name labels, the sentiment pie, top-6 categories and the 6 most recent
// feedback entries.
func (s *DashboardService) Summary(ctx context.Context, organisationID string) (*DashboardSummary, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}

	surveys, responses, feedbacks, err := s.fetchRecords(ctx, organisationID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	series := DailyBucketSeries(feedbackTimes(feedbacks), now, 7)
	daily := make([]DayFeedbackCount, 0, len(series))
	for _, b := range series {
		daily = append(daily, DayFeedbackCount{Day: b.Day.Weekday().String()[:3], Feedbacks: b.Count})
	}

	counts := sentimentCounts(feedbacks)
	chart := []SentimentSlice{}
	for _, label := range []models.Sentiment{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral} {
		if counts[label] == 0 {
			continue
		}
		chart = append(chart, SentimentSlice{
			Name:  TitleCase(string(label)),
			Value: counts[label],
			Color: SentimentColors[label],
		})
	}

	topTopics := []TopTopic{}
	for _, g := range GroupAndRank(feedbackCategories(feedbacks), 6) {
		topTopics = append(topTopics, TopTopic{
			Category:   TitleCase(g.Key),
			Percentage: PercentageOfTotal(g.Count, len(feedbacks)),
		})
	}

	recent := []RecentFeedback{}
	for _, f := range mostRecentFeedbacks(feedbacks, 6) {
		sentiment := "Not Analyzed"
		if f.Sentiment != "" {
			sentiment = TitleCase(string(f.Sentiment))
		}
		recent = append(recent, RecentFeedback{
			Message:   f.Message,
			Category:  TitleCase(string(f.Category)),
			Sentiment: sentiment,
			Date:      f.CreatedAt,
		})
	}

	return &DashboardSummary{
		Totals: DashboardTotals{
			Surveys:   len(surveys),
			Responses: len(responses),
			Feedbacks: len(feedbacks),
		},
		DailyFeedbacks:    daily,
		SentimentAnalysis: chart,
		TopTopics:         topTopics,
		RecentFeedbacks:   recent,
	}, nil
}

type AnalyticsTotals struct {
	Surveys                   int `json:"surveys"`
	SurveysGrowthPercentage   int `json:"surveysGrowthPercentage"`
	Feedbacks                 int `json:"feedbacks"`
	Responses                 int `json:"responses"`
	ResponsesGrowthPercentage int `json:"responsesGrowthPercentage"`
}

type OverviewCard struct {
	Title    string `json:"title"`
	Value    int    `json:"value"`
	Increase int    `json:"increase"`
}

type DailyFeedbackGrowth struct {
	Date             string `json:"date"`
	Feedbacks        int    `json:"Feedbacks"`
	GrowthPercentage int    `json:"GrowthPercentage"`
}

type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type AnalyticsTopTopic struct {
	Category   string `json:"category"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	Feedbacks  int    `json:"feedbacks"`
}

type AnalyticsRecentFeedback struct {
	Message   string `json:"message"`
	Date      string `json:"date"`
	Sentiment string `json:"sentiment"`
}

type AnalyticsSummary struct {
	Totals          AnalyticsTotals           `json:"totals"`
	OverviewCards   []OverviewCard            `json:"overviewCards"`
	DailyFeedbacks  []DailyFeedbackGrowth     `json:"dailyFeedbacks"`
	Sentiment       SentimentCounts           `json:"sentiment"`
	TopTopics       []AnalyticsTopTopic       `json:"topTopics"`
	RecentFeedbacks []AnalyticsRecentFeedback `json:"recentFeedbacks"`
}

// Analytics builds the analytics dashboard: totals with period-over-period
// growth (current vs previous 30-day window for the overview cards,
// day-over-day for the headline survey/response numbers), a 7-day feedback
// series where each entry's growth is computed against the entry before it,
// flat sentiment counts, top-5 categories and the 5 most recent feedbacks.
func (s *DashboardService) Analytics(ctx context.Context, organisationID string) (*AnalyticsSummary, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}

	surveys, responses, feedbacks, err := s.fetchRecords(ctx, organisationID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	surveyTimes := surveyCreatedTimes(surveys)
	responseTimes := responseCreatedTimes(responses)
	fbTimes := feedbackTimes(feedbacks)

	thirtyDaysAgo := now.AddDate(0, 0, -30)
	sixtyDaysAgo := now.AddDate(0, 0, -60)
	prevSurveys := CountInWindow(surveyTimes, sixtyDaysAgo, thirtyDaysAgo)
	prevResponses := CountInWindow(responseTimes, sixtyDaysAgo, thirtyDaysAgo)
	prevFeedbacks := CountInWindow(fbTimes, sixtyDaysAgo, thirtyDaysAgo)

	startOfToday := now.UTC().Truncate(24 * time.Hour)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	todaySurveys := CountInWindow(surveyTimes, startOfToday, startOfTomorrow)
	yesterdaySurveys := CountInWindow(surveyTimes, startOfYesterday, startOfToday)
	todayResponses := CountInWindow(responseTimes, startOfToday, startOfTomorrow)
	yesterdayResponses := CountInWindow(responseTimes, startOfYesterday, startOfToday)

	cards := []OverviewCard{
		{Title: "Total Surveys", Value: len(surveys), Increase: GrowthPercentage(len(surveys), prevSurveys)},
		{Title: "Total Responses", Value: len(responses), Increase: GrowthPercentage(len(responses), prevResponses)},
		{Title: "Total Feedbacks", Value: len(feedbacks), Increase: GrowthPercentage(len(feedbacks), prevFeedbacks)},
	}

	// Growth per day is chained: each entry compares against the previous
	// entry in the series, not a global baseline.
	daily := make([]DailyFeedbackGrowth, 0, 7)
	for _, b := range DailyBucketSeries(fbTimes, now, 7) {
		previous := 0
		if len(daily) > 0 {
			previous = daily[len(daily)-1].Feedbacks
		}
		daily = append(daily, DailyFeedbackGrowth{
			Date:             b.Date,
			Feedbacks:        b.Count,
			GrowthPercentage: GrowthPercentage(b.Count, previous),
		})
	}

	counts := sentimentCounts(feedbacks)

	topTopics := []AnalyticsTopTopic{}
	for _, g := range GroupAndRank(feedbackCategories(feedbacks), 5) {
		topTopics = append(topTopics, AnalyticsTopTopic{
			Category:   TitleCase(g.Key),
			Count:      g.Count,
			Percentage: PercentageOfTotal(g.Count, len(feedbacks)),
			Feedbacks:  g.Count,
		})
	}

	recent := []AnalyticsRecentFeedback{}
	for _, f := range mostRecentFeedbacks(feedbacks, 5) {
		sentiment := string(f.Sentiment)
		if sentiment == "" {
			sentiment = string(models.SentimentNeutral)
		}
		recent = append(recent, AnalyticsRecentFeedback{
			Message:   f.Message,
			Date:      f.CreatedAt.UTC().Format(time.RFC3339),
			Sentiment: sentiment,
		})
	}

	return &AnalyticsSummary{
		Totals: AnalyticsTotals{
			Surveys:                   len(surveys),
			SurveysGrowthPercentage:   GrowthPercentage(todaySurveys, yesterdaySurveys),
			Feedbacks:                 len(feedbacks),
			Responses:                 len(responses),
			ResponsesGrowthPercentage: GrowthPercentage(todayResponses, yesterdayResponses),
		},
		OverviewCards:   cards,
		DailyFeedbacks:  daily,
		Sentiment:       SentimentCounts{Positive: counts[models.SentimentPositive], Neutral: counts[models.SentimentNeutral], Negative: counts[models.SentimentNegative]},
		TopTopics:       topTopics,
		RecentFeedbacks: recent,
	}, nil
}

// DailyCategoryCounts is one weekday row of the category heat chart.
type DailyCategoryCounts struct {
	Day         string `json:"day"`
	Product     int    `json:"Product"`
	Ux          int    `json:"Ux"`
	Support     int    `json:"Support"`
	Pricing     int    `json:"Pricing"`
	Features    int    `json:"Features"`
	Performance int    `json:"Performance"`
	Other       int    `json:"Other"`
}

// DailyCategories buckets the trailing 7 days of feedback per category by
// day-of-week, Sunday first. Two occurrences of the same weekday inside the
// lookback window sum together; this is a weekly-pattern view, not a
// calendar-day view.
func (s *DashboardService) DailyCategories(ctx context.Context, organisationID string) ([]DailyCategoryCounts, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}

	feedbacks, err := s.store.ListFeedbacks(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	cutoff := s.now().AddDate(0, 0, -7)

	rows := make([]DailyCategoryCounts, 7)
	for i := range rows {
		rows[i].Day = time.Weekday(i).String()[:3]
	}
	for _, f := range feedbacks {
		if f.CreatedAt.Before(cutoff) || f.Category == "" {
			continue
		}
		row := &rows[int(f.CreatedAt.UTC().Weekday())]
		switch f.Category {
		case models.CategoryProduct:
			row.Product++
		case models.CategoryUX:
			row.Ux++
		case models.CategorySupport:
			row.Support++
		case models.CategoryPricing:
			row.Pricing++
		case models.CategoryFeatures:
			row.Features++
		case models.CategoryPerformance:
			row.Performance++
		case models.CategoryOther:
			row.Other++
		}
	}
	return rows, nil
}

type OrganisationOverview struct {
	OrganisationName    string `json:"organisationName"`
	OrganisationCountry string `json:"organisationCountry"`
	OrganisationSize    string `json:"organisationSize"`
	TotalUsers          int    `json:"totalUsers"`
	AdminUsers          int    `json:"adminUsers"`
	Analysts            int    `json:"analysts"`
	Researchers         int    `json:"researchers"`
}

// Organisation returns the tenant's profile plus a per-role headcount.
func (s *DashboardService) Organisation(ctx context.Context, organisationID string) (*OrganisationOverview, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}

	org, err := s.store.GetOrganisation(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	if org == nil {
		return nil, NewNotFoundError("Organisation not found")
	}
	users, err := s.store.ListUsers(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}

	overview := &OrganisationOverview{
		OrganisationName:    org.Name,
		OrganisationCountry: org.Country,
		OrganisationSize:    org.Size,
	}
	for _, u := range users {
		switch u.Role {
		case models.RoleAdmin:
			overview.AdminUsers++
		case models.RoleAnalyst:
			overview.Analysts++
		case models.RoleResearcher:
			overview.Researchers++
		}
	}
	overview.TotalUsers = overview.AdminUsers + overview.Analysts + overview.Researchers
	return overview, nil
}

// fetchRecords issues the three independent list queries concurrently and
// joins before the caller computes anything; a cancelled request context
// abandons the remaining queries.
func (s *DashboardService) fetchRecords(ctx context.Context, organisationID string) ([]*models.Survey, []*models.Response, []*models.Feedback, error) {
	var (
		surveys   []*models.Survey
		responses []*models.Response
		feedbacks []*models.Feedback
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		surveys, err = s.store.ListSurveys(ctx, organisationID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.store.ListResponses(ctx, organisationID)
		return err
	})
	g.Go(func() error {
		var err error
		feedbacks, err = s.store.ListFeedbacks(ctx, organisationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, NewDataUnavailableError(err)
	}
	return surveys, responses, feedbacks, nil
}

func surveyCreatedTimes(surveys []*models.Survey) []time.Time {
	out := make([]time.Time, 0, len(surveys))
	for _, sv := range surveys {
		out = append(out, sv.CreatedAt)
	}
	return out
}

func responseCreatedTimes(responses []*models.Response) []time.Time {
	out := make([]time.Time, 0, len(responses))
	for _, r := range responses {
		out = append(out, r.CreatedAt)
	}
	return out
}

func feedbackTimes(feedbacks []*models.Feedback) []time.Time {
	out := make([]time.Time, 0, len(feedbacks))
	for _, f := range feedbacks {
		out = append(out, f.CreatedAt)
	}
	return out
}

func feedbackCategories(feedbacks []*models.Feedback) []string {
	out := make([]string, 0, len(feedbacks))
	for _, f := range feedbacks {
		out = append(out, string(f.Category))
	}
	return out
}

func sentimentCounts(feedbacks []*models.Feedback) map[models.Sentiment]int {
	counts := map[models.Sentiment]int{}
	for _, f := range feedbacks {
		if f.Sentiment != "" {
			counts[f.Sentiment]++
		}
	}
	return counts
}

// mostRecentFeedbacks returns up to limit entries, newest first, without
// touching the input slice's order.
func mostRecentFeedbacks(feedbacks []*models.Feedback, limit int) []*models.Feedback {
	sorted := append([]*models.Feedback(nil), feedbacks...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
