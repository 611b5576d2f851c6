package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
)

// ReportStore abstracts the read-only queries the report engine needs. Lists
// come back already scoped to the organisation.
type ReportStore interface {
	ListSurveys(ctx context.Context, organisationID string) ([]*models.Survey, error)
	ListResponses(ctx context.Context, organisationID string) ([]*models.Response, error)
	ListFeedbacks(ctx context.Context, organisationID string) ([]*models.Feedback, error)
	ListUsers(ctx context.Context, organisationID string) ([]*models.User, error)
}

const (
	defaultPeriodDays = 30
	minPeriodDays     = 1
	maxPeriodDays     = 365
)

// DateRange is an optional caller-supplied calendar window. Both bounds are
// midnight UTC; matching is inclusive of both.
type DateRange struct {
	Start time.Time
	End   time.Time
	Set   bool
}

// ParseDateRange validates the startDate/endDate query pair. Both-or-neither
// is required, dates are ISO calendar dates, and end must not precede start.
func ParseDateRange(startDate, endDate string) (DateRange, error) {
	if startDate == "" && endDate == "" {
		return DateRange{}, nil
	}
	if startDate == "" || endDate == "" {
		return DateRange{}, NewInvalidDateRangeError("startDate and endDate must be provided together")
	}
	start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
	if err != nil {
		return DateRange{}, NewInvalidDateRangeError("startDate must be a valid date (YYYY-MM-DD)")
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
	if err != nil {
		return DateRange{}, NewInvalidDateRangeError("endDate must be a valid date (YYYY-MM-DD)")
	}
	if end.Before(start) {
		return DateRange{}, NewInvalidDateRangeError("endDate must be after or equal to startDate")
	}
	return DateRange{Start: start, End: end, Set: true}, nil
}

func (r DateRange) contains(t time.Time) bool {
	if !r.Set {
		return true
	}
	return inRange(t, r.Start, r.End)
}

type ReportService struct {
	store ReportStore
	now   func() time.Time
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type SurveySummaryStats struct {
	TotalSurveys   int     `json:"totalSurveys"`
	ActiveSurveys  int     `json:"activeSurveys"`
	AvgQuestions   float64 `json:"avgQuestions"`
	TotalQuestions int     `json:"totalQuestions"`
}

type TopSurvey struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	ResponseCount  int       `json:"responseCount"`
	CompletionRate float64   `json:"completionRate"`
	QuestionCount  int       `json:"questionCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

type SurveyResponseStat struct {
	SurveyID      string `json:"surveyId"`
	ResponseCount int    `json:"responseCount"`
}

type SurveyReport struct {
	Summary       SurveySummaryStats   `json:"summary"`
	TopSurveys    []TopSurvey          `json:"topSurveys"`
	ResponseStats []SurveyResponseStat `json:"responseStats"`
}

// SurveyReportFilter narrows the survey report to a date range and/or one
// survey.
type SurveyReportFilter struct {
	Range    DateRange
	SurveyID string
}

// Surveys computes survey counts, question statistics and the top five
// surveys by response volume. Completion rate is responses over question
// count; a survey with more responses than questions legitimately exceeds
// 100%.
func (s *ReportService) Surveys(ctx context.Context, organisationID string, filter SurveyReportFilter) (*SurveyReport, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	if filter.SurveyID != "" {
		if _, err := uuid.Parse(filter.SurveyID); err != nil {
			return nil, NewInvalidFilterError("surveyId must be a valid identifier")
		}
	}

	var (
		surveys   []*models.Survey
		responses []*models.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		surveys, err = s.store.ListSurveys(gctx, organisationID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.store.ListResponses(gctx, organisationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewDataUnavailableError(err)
	}

	matched := make([]*models.Survey, 0, len(surveys))
	for _, sv := range surveys {
		if !filter.Range.contains(sv.CreatedAt) {
			continue
		}
		if filter.SurveyID != "" && sv.ID != filter.SurveyID {
			continue
		}
		matched = append(matched, sv)
	}

	summary := SurveySummaryStats{TotalSurveys: len(matched)}
	for _, sv := range matched {
		if sv.Status == models.SurveyActive {
			summary.ActiveSurveys++
		}
		summary.TotalQuestions += len(sv.Questions)
	}
	if len(matched) > 0 {
		summary.AvgQuestions = RoundTo(float64(summary.TotalQuestions)/float64(len(matched)), 2)
	}

	countBySurvey := map[string]int{}
	for _, r := range responses {
		countBySurvey[r.SurveyID]++
	}

	ranked := append([]*models.Survey(nil), matched...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return countBySurvey[ranked[i].ID] > countBySurvey[ranked[j].ID]
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	topSurveys := []TopSurvey{}
	for _, sv := range ranked {
		topSurveys = append(topSurveys, TopSurvey{
			ID:             sv.ID,
			Title:          sv.Title,
			Description:    sv.Description,
			ResponseCount:  countBySurvey[sv.ID],
			CompletionRate: completionRate(countBySurvey[sv.ID], len(sv.Questions)),
			QuestionCount:  len(sv.Questions),
			CreatedAt:      sv.CreatedAt,
		})
	}

	// Only surveys that actually received responses appear here, mirroring
	// the per-survey grouping the dashboard frontend charts.
	stats := []SurveyResponseStat{}
	for _, sv := range surveys {
		if countBySurvey[sv.ID] > 0 {
			stats = append(stats, SurveyResponseStat{SurveyID: sv.ID, ResponseCount: countBySurvey[sv.ID]})
		}
	}

	return &SurveyReport{Summary: summary, TopSurveys: topSurveys, ResponseStats: stats}, nil
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type SentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}

type SurveyCompletionRate struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	ResponseCount  int     `json:"responseCount"`
	CompletionRate float64 `json:"completionRate"`
	QuestionCount  int     `json:"questionCount"`
}

type ResponseReport struct {
	ResponseTrends    []TrendPoint           `json:"responseTrends"`
	SentimentAnalysis []SentimentCount       `json:"sentimentAnalysis"`
	CompletionRates   []SurveyCompletionRate `json:"completionRates"`
}

// Responses computes the response trend by calendar date, the sentiment
// distribution over individual answers (not whole responses), and per-survey
// completion rates. Answers that were never analysed count under an empty
// sentiment bucket.
func (s *ReportService) Responses(ctx context.Context, organisationID string, dateRange DateRange) (*ResponseReport, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}

	var (
		surveys   []*models.Survey
		responses []*models.Response
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		surveys, err = s.store.ListSurveys(gctx, organisationID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.store.ListResponses(gctx, organisationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewDataUnavailableError(err)
	}

	inWindow := make([]*models.Response, 0, len(responses))
	for _, r := range responses {
		if dateRange.contains(r.CreatedAt) {
			inWindow = append(inWindow, r)
		}
	}

	trendTimes := make([]time.Time, 0, len(inWindow))
	sentiments := make([]string, 0)
	for _, r := range inWindow {
		trendTimes = append(trendTimes, r.CreatedAt)
		for _, a := range r.Answers {
			sentiments = append(sentiments, string(a.Sentiment))
		}
	}

	sentimentAnalysis := []SentimentCount{}
	for _, grp := range GroupAndRank(sentiments, 0) {
		sentimentAnalysis = append(sentimentAnalysis, SentimentCount{Sentiment: grp.Key, Count: grp.Count})
	}

	countBySurvey := map[string]int{}
	for _, r := range responses {
		countBySurvey[r.SurveyID]++
	}
	completionRates := []SurveyCompletionRate{}
	for _, sv := range surveys {
		completionRates = append(completionRates, SurveyCompletionRate{
			ID:             sv.ID,
			Title:          sv.Title,
			ResponseCount:  countBySurvey[sv.ID],
			CompletionRate: RoundTo(completionRate(countBySurvey[sv.ID], len(sv.Questions)), 2),
			QuestionCount:  len(sv.Questions),
		})
	}

	return &ResponseReport{
		ResponseTrends:    dateTrend(trendTimes),
		SentimentAnalysis: sentimentAnalysis,
		CompletionRates:   completionRates,
	}, nil
}

type CategoryDistribution struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SentimentTrendPoint struct {
	Date      string `json:"date"`
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}

type FeedbackReport struct {
	FeedbackTrends       []TrendPoint           `json:"feedbackTrends"`
	CategoryDistribution []CategoryDistribution `json:"categoryDistribution"`
	SentimentTrends      []SentimentTrendPoint  `json:"sentimentTrends"`
	TotalFeedbackCount   int                    `json:"totalFeedbackCount"`
}

// Feedback computes the feedback trend, the category distribution with
// percentages, and the per-(date, sentiment) trend. The optional category
// filter narrows the trend only; the distribution always covers every
// category so percentages stay meaningful.
func (s *ReportService) Feedback(ctx context.Context, organisationID string, dateRange DateRange, category string) (*FeedbackReport, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	if category != "" && !models.ValidCategory(category) {
		return nil, NewInvalidFilterError("category must be one of the defined feedback categories")
	}

	feedbacks, err := s.store.ListFeedbacks(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}

	trendTimes := []time.Time{}
	categories := []string{}
	sentimentByDay := map[string]map[models.Sentiment]int{}
	total := 0
	for _, f := range feedbacks {
		if !dateRange.contains(f.CreatedAt) {
			continue
		}
		total++
		categories = append(categories, string(f.Category))
		if category == "" || f.Category == models.Category(category) {
			trendTimes = append(trendTimes, f.CreatedAt)
		}
		if f.Sentiment != "" {
			day := f.CreatedAt.UTC().Format(dateLayout)
			if sentimentByDay[day] == nil {
				sentimentByDay[day] = map[models.Sentiment]int{}
			}
			sentimentByDay[day][f.Sentiment]++
		}
	}

	distribution := []CategoryDistribution{}
	for _, grp := range GroupAndRank(categories, 0) {
		distribution = append(distribution, CategoryDistribution{
			Category:   TitleCase(grp.Key),
			Count:      grp.Count,
			Percentage: RoundTo(float64(grp.Count)/float64(total)*100, 1),
		})
	}

	days := make([]string, 0, len(sentimentByDay))
	for day := range sentimentByDay {
		days = append(days, day)
	}
	sort.Strings(days)
	sentimentTrends := []SentimentTrendPoint{}
	for _, day := range days {
		for _, label := range []models.Sentiment{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral} {
			if n := sentimentByDay[day][label]; n > 0 {
				sentimentTrends = append(sentimentTrends, SentimentTrendPoint{Date: day, Sentiment: string(label), Count: n})
			}
		}
	}

	return &FeedbackReport{
		FeedbackTrends:       dateTrend(trendTimes),
		CategoryDistribution: distribution,
		SentimentTrends:      sentimentTrends,
		TotalFeedbackCount:   total,
	}, nil
}

type UserStats struct {
	TotalUsers       int     `json:"totalUsers"`
	VerifiedUsers    int     `json:"verifiedUsers"`
	ActiveUsers      int     `json:"activeUsers"`
	VerificationRate float64 `json:"verificationRate"`
	ActivityRate     float64 `json:"activityRate"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type NewUsersPoint struct {
	Date     string `json:"date"`
	NewUsers int    `json:"newUsers"`
}

type UserActivityReport struct {
	UserStats        UserStats       `json:"userStats"`
	RoleDistribution []RoleCount     `json:"roleDistribution"`
	UserActivity     []NewUsersPoint `json:"userActivity"`
}

// Users computes headcounts (total, verified, active within 30 days),
// verification/activity rates, the organisation-wide role distribution and
// the new-user registration trend. The optional role filter narrows the
// stats; the role distribution always covers the whole organisation.
func (s *ReportService) Users(ctx context.Context, organisationID string, dateRange DateRange, role string) (*UserActivityReport, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	if role != "" && !models.ValidRole(role) {
		return nil, NewInvalidFilterError("role must be one of admin, analyst, researcher")
	}

	users, err := s.store.ListUsers(ctx, organisationID)
	if err != nil {
		return nil, NewDataUnavailableError(err)
	}
	activeCutoff := s.now().AddDate(0, 0, -30)

	stats := UserStats{}
	trendTimes := []time.Time{}
	roles := make([]string, 0, len(users))
	for _, u := range users {
		roles = append(roles, string(u.Role))
		if !dateRange.contains(u.CreatedAt) {
			continue
		}
		trendTimes = append(trendTimes, u.CreatedAt)
		if role != "" && u.Role != models.Role(role) {
			continue
		}
		stats.TotalUsers++
		if u.Verified {
			stats.VerifiedUsers++
		}
		if u.LastLoginAt != nil && !u.LastLoginAt.Before(activeCutoff) {
			stats.ActiveUsers++
		}
	}
	if stats.TotalUsers > 0 {
		stats.VerificationRate = RoundTo(float64(stats.VerifiedUsers)/float64(stats.TotalUsers)*100, 1)
		stats.ActivityRate = RoundTo(float64(stats.ActiveUsers)/float64(stats.TotalUsers)*100, 1)
	}

	distribution := []RoleCount{}
	for _, grp := range GroupAndRank(roles, 0) {
		distribution = append(distribution, RoleCount{Role: grp.Key, Count: grp.Count})
	}

	activity := []NewUsersPoint{}
	for _, p := range dateTrend(trendTimes) {
		activity = append(activity, NewUsersPoint{Date: p.Date, NewUsers: p.Count})
	}

	return &UserActivityReport{UserStats: stats, RoleDistribution: distribution, UserActivity: activity}, nil
}

type ExecutiveKeyMetrics struct {
	TotalSurveys    int     `json:"totalSurveys"`
	TotalResponses  int     `json:"totalResponses"`
	TotalFeedbacks  int     `json:"totalFeedbacks"`
	TotalUsers      int     `json:"totalUsers"`
	AvgResponseRate float64 `json:"avgResponseRate"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type ExecutiveSummary struct {
	Period            string              `json:"period"`
	KeyMetrics        ExecutiveKeyMetrics `json:"keyMetrics"`
	SentimentOverview []SentimentCount    `json:"sentimentOverview"`
	TopCategories     []CategoryCount     `json:"topCategories"`
	Recommendations   []string            `json:"recommendations"`
}

// Executive computes the period-scoped totals, sentiment overview, top five
// categories and threshold-rule recommendations. periodDays defaults to 30
// and is clamped to [1, 365].
func (s *ReportService) Executive(ctx context.Context, organisationID string, periodDays int) (*ExecutiveSummary, error) {
	if organisationID == "" {
		return nil, NewScopeRequiredError()
	}
	if periodDays == 0 {
		periodDays = defaultPeriodDays
	}
	if periodDays < minPeriodDays {
		periodDays = minPeriodDays
	}
	if periodDays > maxPeriodDays {
		periodDays = maxPeriodDays
	}
	since := s.now().AddDate(0, 0, -periodDays)

	var (
		surveys   []*models.Survey
		responses []*models.Response
		feedbacks []*models.Feedback
		users     []*models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		surveys, err = s.store.ListSurveys(gctx, organisationID)
		return err
	})
	g.Go(func() error {
		var err error
		responses, err = s.store.ListResponses(gctx, organisationID)
		return err
	})
	g.Go(func() error {
		var err error
		feedbacks, err = s.store.ListFeedbacks(gctx, organisationID)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.store.ListUsers(gctx, organisationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewDataUnavailableError(err)
	}

	totalSurveys := CountInWindow(surveyCreatedTimes(surveys), since, time.Time{})
	totalResponses := CountInWindow(responseCreatedTimes(responses), since, time.Time{})
	totalFeedbacks := 0
	totalUsers := 0
	sentiments := []string{}
	categories := []string{}
	counts := map[models.Sentiment]int{}
	for _, f := range feedbacks {
		if f.CreatedAt.Before(since) {
			continue
		}
		totalFeedbacks++
		categories = append(categories, string(f.Category))
		if f.Sentiment != "" {
			sentiments = append(sentiments, string(f.Sentiment))
			counts[f.Sentiment]++
		}
	}
	for _, u := range users {
		if !u.CreatedAt.Before(since) {
			totalUsers++
		}
	}

	avgResponseRate := 0.0
	if totalSurveys > 0 {
		avgResponseRate = RoundTo(float64(totalResponses)/float64(totalSurveys)*100, 2)
	}

	overview := []SentimentCount{}
	for _, grp := range GroupAndRank(sentiments, 0) {
		overview = append(overview, SentimentCount{Sentiment: grp.Key, Count: grp.Count})
	}
	topCategories := []CategoryCount{}
	for _, grp := range GroupAndRank(categories, 5) {
		topCategories = append(topCategories, CategoryCount{Category: TitleCase(grp.Key), Count: grp.Count})
	}

	recommendations := GenerateRecommendations(MetricsSnapshot{
		TotalSurveys:    totalSurveys,
		TotalResponses:  totalResponses,
		TotalFeedbacks:  totalFeedbacks,
		TotalUsers:      totalUsers,
		AvgResponseRate: avgResponseRate,
		PositiveCount:   counts[models.SentimentPositive],
		NegativeCount:   counts[models.SentimentNegative],
	})

	return &ExecutiveSummary{
		Period:            fmt.Sprintf("%d days", periodDays),
		KeyMetrics:        ExecutiveKeyMetrics{TotalSurveys: totalSurveys, TotalResponses: totalResponses, TotalFeedbacks: totalFeedbacks, TotalUsers: totalUsers, AvgResponseRate: avgResponseRate},
		SentimentOverview: overview,
		TopCategories:     topCategories,
		Recommendations:   recommendations,
	}, nil
}

func completionRate(responseCount, questionCount int) float64 {
	if questionCount == 0 {
		return 0
	}
	return float64(responseCount) / float64(questionCount) * 100
}

// dateTrend groups timestamps by UTC calendar date, ascending. Only dates
// with at least one record appear; fixed-length zero-filled series are
// DailyBucketSeries's job.
func dateTrend(times []time.Time) []TrendPoint {
	counts := map[string]int{}
	for _, t := range times {
		counts[t.UTC().Format(dateLayout)]++
	}
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]TrendPoint, 0, len(days))
	for _, d := range days {
		out = append(out, TrendPoint{Date: d, Count: counts[d]})
	}
	return out
}
