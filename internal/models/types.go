package models

import "time"

// Role controls which reports and admin operations a user may reach.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAnalyst    Role = "analyst"
	RoleResearcher Role = "researcher"
)

// Roles lists every valid role, in display order.
var Roles = []Role{RoleAdmin, RoleAnalyst, RoleResearcher}

// Sentiment is assigned to free text by the classifier. Empty means the text
// has not been analysed.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Category tags a piece of feedback. Stored lowercase; presenters title-case
// it on the way out.
type Category string

const (
	CategoryProduct     Category = "product"
	CategoryUX          Category = "ux"
	CategorySupport     Category = "support"
	CategoryPricing     Category = "pricing"
	CategoryFeatures    Category = "features"
	CategoryPerformance Category = "performance"
	CategoryOther       Category = "other"
)

// Categories lists every valid feedback category, in chart order.
var Categories = []Category{
	CategoryProduct, CategoryUX, CategorySupport, CategoryPricing,
	CategoryFeatures, CategoryPerformance, CategoryOther,
}

// ValidRole reports whether r is one of the defined roles.
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleAnalyst, RoleResearcher:
		return true
	}
	return false
}

// ValidCategory reports whether c is one of the defined feedback categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if Category(c) == known {
			return true
		}
	}
	return false
}

// Organisation is the tenant boundary; every other record carries its ID.
type Organisation struct {
	ID        string    `json:"id"`
	Name      string    `json:"organisationName"`
	Country   string    `json:"organisationCountry"`
	Size      string    `json:"organisationSize"`
	CreatedAt time.Time `json:"createdAt"`
}

// User belongs to one organisation and holds one role.
type User struct {
	ID             string     `json:"id"`
	OrganisationID string     `json:"organisationId"`
	FullName       string     `json:"fullname"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phonenumber"`
	Role           Role       `json:"role"`
	PasswordHash   string     `json:"-"`
	Verified       bool       `json:"isVerified"`
	OTP            string     `json:"-"`
	OTPExpires     time.Time  `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// QuestionType is one of text, rating or choice.
type QuestionType string

const (
	QuestionText   QuestionType = "text"
	QuestionRating QuestionType = "rating"
	QuestionChoice QuestionType = "choice"
)

// Question is a single survey question. Options are only meaningful for
// choice questions.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"questionText"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

// SurveyStatus marks whether a survey still accepts responses.
type SurveyStatus string

const (
	SurveyActive SurveyStatus = "active"
	SurveyClosed SurveyStatus = "closed"
)

// Survey belongs to one organisation. LinkID is the shareable token external
// respondents use; it never changes after creation.
type Survey struct {
	ID             string       `json:"id"`
	OrganisationID string       `json:"organisationId"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Questions      []Question   `json:"questions"`
	Status         SurveyStatus `json:"status"`
	LinkID         string       `json:"uniqueLinkId"`
	CreatedBy      string       `json:"createdBy"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Answer is one answered question inside a response. Sentiment is filled for
// text answers at submission time.
type Answer struct {
	QuestionID string    `json:"questionId"`
	Value      string    `json:"answer"`
	Sentiment  Sentiment `json:"sentiment,omitempty"`
}

// Response is a full survey submission from one respondent.
type Response struct {
	ID             string    `json:"id"`
	OrganisationID string    `json:"organisationId"`
	SurveyID       string    `json:"surveyId"`
	Answers        []Answer  `json:"responses"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Feedback is a free-text message from an external respondent.
type Feedback struct {
	ID             string    `json:"id"`
	OrganisationID string    `json:"organisationId"`
	Message        string    `json:"message"`
	Category       Category  `json:"category"`
	Sentiment      Sentiment `json:"sentiment,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
