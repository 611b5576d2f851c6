//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("PI_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:8080"
}

type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode"`
	Data      json.RawMessage `json:"data"`
}

func TestFeedbackJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	userEmail := fmt.Sprintf("integration_%d@example.com", time.Now().UnixNano())
	password := "Secret123!"
	orgName := fmt.Sprintf("Org %d", time.Now().UnixNano())

	env := doPost(t, client, base+"/api/auth/signup", "", map[string]any{
		"fullname":            "Integration Admin",
		"email":               userEmail,
		"phonenumber":         "+250700000001",
		"organisationName":    orgName,
		"organisationCountry": "Rwanda",
		"organisationSize":    "1-10",
		"password":            password,
	})
	if env.Status != "success" {
		t.Fatalf("unexpected signup response: %+v", env)
	}

	env = doPost(t, client, base+"/api/auth/login", "", map[string]string{
		"email":    userEmail,
		"password": password,
	})
	var login struct {
		Token string `json:"token"`
		User  struct {
			OrganisationID string `json:"organisationId"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &login); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	token := login.Token
	if token == "" {
		t.Fatalf("login did not return token")
	}

	env = doPost(t, client, base+"/api/surveys", token, map[string]any{
		"title": "Integration Survey",
		"questions": []map[string]any{
			{"questionText": "How satisfied are you?", "type": "rating"},
			{"questionText": "Anything else?", "type": "text"},
		},
	})
	var survey struct {
		ID        string `json:"id"`
		LinkID    string `json:"uniqueLinkId"`
		Questions []struct {
			ID string `json:"id"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(env.Data, &survey); err != nil {
		t.Fatalf("decode survey data: %v", err)
	}
	if survey.LinkID == "" || len(survey.Questions) != 2 {
		t.Fatalf("unexpected survey response: %s", env.Data)
	}

	// The public link works without a token.
	env = doGet(t, client, base+"/api/surveys/link/"+survey.LinkID, "")
	if env.Status != "success" {
		t.Fatalf("survey by link failed: %+v", env)
	}

	env = doPost(t, client, base+"/api/responses/link/"+survey.LinkID, "", map[string]any{
		"responses": []map[string]string{
			{"questionId": survey.Questions[0].ID, "answer": "5"},
			{"questionId": survey.Questions[1].ID, "answer": "Really smooth experience"},
		},
	})
	if env.Status != "success" {
		t.Fatalf("submit response by link failed: %+v", env)
	}

	env = doPost(t, client, base+"/api/feedbacks", "", map[string]string{
		"organisationId": login.User.OrganisationID,
		"message":        "The onboarding flow is excellent",
		"category":       "ux",
	})
	if env.Status != "success" {
		t.Fatalf("submit feedback failed: %+v", env)
	}

	env = doGet(t, client, base+"/api/dashboard/summary", token)
	var summary struct {
		Totals struct {
			Surveys   int `json:"surveys"`
			Responses int `json:"responses"`
			Feedbacks int `json:"feedbacks"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode dashboard summary: %v", err)
	}
	if summary.Totals.Surveys != 1 || summary.Totals.Responses != 1 || summary.Totals.Feedbacks != 1 {
		t.Fatalf("unexpected dashboard totals: %+v", summary.Totals)
	}

	env = doGet(t, client, base+"/api/reports/executive-summary?period=30", token)
	var executive struct {
		Period string `json:"period"`
	}
	if err := json.Unmarshal(env.Data, &executive); err != nil {
		t.Fatalf("decode executive summary: %v", err)
	}
	if executive.Period != "30 days" {
		t.Fatalf("unexpected executive period: %q", executive.Period)
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, client, req, url)
}

func doGet(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, client, req, url)
}

func send(t *testing.T, client *http.Client, req *http.Request, url string) envelope {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http %s %s failed: %v", req.Method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return env
}
