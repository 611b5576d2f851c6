package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeAndValidate unmarshals the request body into dst and runs its
// validation tags. The returned error message names the first failing field.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return fmt.Errorf("%s failed on the %s rule", strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("invalid request body")
	}
	return nil
}

type signupRequest struct {
	FullName            string `json:"fullname" validate:"required,min=2"`
	Email               string `json:"email" validate:"required,email"`
	PhoneNumber         string `json:"phonenumber" validate:"required,min=7"`
	OrganisationName    string `json:"organisationName" validate:"required"`
	OrganisationCountry string `json:"organisationCountry" validate:"required"`
	OrganisationSize    string `json:"organisationSize" validate:"required"`
	Password            string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type inviteUserRequest struct {
	FullName    string `json:"fullname" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phonenumber" validate:"omitempty,min=7"`
	Role        string `json:"role" validate:"omitempty,oneof=admin analyst researcher"`
}

type updateUserRequest struct {
	FullName    *string `json:"fullname" validate:"omitempty,min=2"`
	PhoneNumber *string `json:"phonenumber" validate:"omitempty,min=7"`
	Role        *string `json:"role" validate:"omitempty,oneof=admin analyst researcher"`
}

type questionRequest struct {
	Text    string   `json:"questionText" validate:"required"`
	Type    string   `json:"type" validate:"omitempty,oneof=text rating choice"`
	Options []string `json:"options"`
}

type surveyRequest struct {
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	Questions   []questionRequest `json:"questions" validate:"required,min=1,dive"`
}

type surveyUpdateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []questionRequest `json:"questions" validate:"omitempty,dive"`
	Status      string            `json:"status" validate:"omitempty,oneof=active closed"`
}

type answerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

type submitResponseRequest struct {
	SurveyID string          `json:"surveyId" validate:"required"`
	Answers  []answerRequest `json:"responses" validate:"required,min=1,dive"`
}

type submitByLinkRequest struct {
	Answers []answerRequest `json:"responses" validate:"required,min=1,dive"`
}

type feedbackRequest struct {
	OrganisationID string `json:"organisationId" validate:"required"`
	Message        string `json:"message" validate:"required"`
	Category       string `json:"category" validate:"omitempty,oneof=product ux support pricing features performance other"`
}

// reportQuery covers the shared filter parameters of the report endpoints.
// Date parsing stays with the report service so malformed dates come back as
// INVALID_DATE_RANGE rather than a generic validation failure.
type reportQuery struct {
	StartDate string
	EndDate   string
	Category  string `validate:"omitempty,oneof=product ux support pricing features performance other"`
	Role      string `validate:"omitempty,oneof=admin analyst researcher"`
	SurveyID  string `validate:"omitempty,uuid4"`
	Period    int
}
