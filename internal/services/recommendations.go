package services

// MetricsSnapshot is the input to recommendation generation: the already
// computed totals for one organisation and period.
type MetricsSnapshot struct {
	TotalSurveys    int
	TotalResponses  int
	TotalFeedbacks  int
	TotalUsers      int
	AvgResponseRate float64
	PositiveCount   int
	NegativeCount   int
}

// GenerateRecommendations evaluates the threshold rules in fixed order and
// returns every message whose rule triggered. Rules are independent; none
// suppresses another. An empty slice means nothing triggered.
func GenerateRecommendations(m MetricsSnapshot) []string {
	recommendations := []string{}

	if m.AvgResponseRate < 20 {
		recommendations = append(recommendations, "Consider improving survey engagement strategies to increase response rates")
	}
	if m.TotalFeedbacks < 10 {
		recommendations = append(recommendations, "Encourage more feedback collection to better understand user needs")
	}
	if m.NegativeCount > m.PositiveCount {
		recommendations = append(recommendations, "Focus on addressing negative feedback to improve overall satisfaction")
	}
	if m.TotalSurveys < 5 {
		recommendations = append(recommendations, "Consider creating more surveys to gather comprehensive feedback")
	}
	if m.TotalUsers < 10 {
		recommendations = append(recommendations, "Focus on user acquisition and team building within the organisation")
	}

	return recommendations
}
