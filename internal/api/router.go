package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/middleware"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/models"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/services"
)

// Router owns the HTTP surface. Every handler delegates to one service and
// translates its result into the response envelope.
type Router struct {
	auth      *services.AuthService
	users     *services.UserService
	surveys   *services.SurveyService
	responses *services.ResponseService
	feedback  *services.FeedbackService
	dashboard *services.DashboardService
	reports   *services.ReportService
}

// NewRouter wires every service to the given store. Passing nil uses the
// in-memory store.
func NewRouter(store Store) *Router {
	if store == nil {
		store = newMemoryStore()
	}
	return &Router{
		auth:      services.NewAuthService(store, middleware.SignToken),
		users:     services.NewUserService(store),
		surveys:   services.NewSurveyService(store),
		responses: services.NewResponseService(store),
		feedback:  services.NewFeedbackService(store),
		dashboard: services.NewDashboardService(store),
		reports:   services.NewReportService(store),
	}
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())
	r.Use(middleware.WithAuth)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		respondOK(w, "ok", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", rt.handleSignup)
			r.Post("/login", rt.handleLogin)
			r.Post("/verify-otp", rt.handleVerifyOTP)
			r.With(middleware.RequireAuth).Post("/resend-otp", rt.handleResendOTP)
		})

		// Link-token endpoints serve external respondents; the token is the
		// only credential.
		r.Get("/surveys/link/{linkId}", rt.handleSurveyByLink)
		r.Post("/responses/link/{linkId}", rt.handleSubmitResponseByLink)
		r.Post("/feedbacks", rt.handleSubmitFeedback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Route("/surveys", func(r chi.Router) {
				r.Get("/", rt.handleListSurveys)
				r.Post("/", rt.handleCreateSurvey)
				r.Get("/{id}", rt.handleGetSurvey)
				r.Put("/{id}", rt.handleUpdateSurvey)
				r.Delete("/{id}", rt.handleDeleteSurvey)
			})

			r.Route("/responses", func(r chi.Router) {
				r.Get("/", rt.handleListResponses)
				r.Post("/", rt.handleSubmitResponse)
				r.Get("/survey/{surveyId}", rt.handleListResponsesBySurvey)
			})

			r.Route("/feedbacks", func(r chi.Router) {
				r.Get("/", rt.handleListFeedbacks)
				r.Delete("/{id}", rt.handleDeleteFeedback)
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(models.RoleAdmin)))
				r.Get("/", rt.handleListUsers)
				r.Post("/", rt.handleInviteUser)
				r.Put("/{id}", rt.handleUpdateUser)
				r.Delete("/{id}", rt.handleDeleteUser)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", rt.handleDashboardSummary)
				r.Get("/summary", rt.handleDashboardSummary)
				r.Get("/analytics", rt.handleDashboardAnalytics)
				r.Get("/daily-categories", rt.handleDailyCategories)
				r.Get("/organisation", rt.handleOrganisationOverview)
			})

			r.Route("/reports", func(r chi.Router) {
				analyst := middleware.RequireRole(string(models.RoleAdmin), string(models.RoleAnalyst))
				admin := middleware.RequireRole(string(models.RoleAdmin))
				r.With(analyst).Get("/surveys", rt.handleSurveyReport)
				r.With(analyst).Get("/responses", rt.handleResponseReport)
				r.With(analyst).Get("/feedback", rt.handleFeedbackReport)
				r.With(admin).Get("/users", rt.handleUserReport)
				r.With(admin).Get("/executive-summary", rt.handleExecutiveSummary)
				r.Get("/health", rt.handleReportsHealth)
			})
		})
	})

	return r
}

// organisationScope pulls the caller's organisation out of the JWT claims.
// Handlers pass the empty string through so the service reports the missing
// scope consistently.
func organisationScope(r *http.Request) string {
	org, _ := middleware.OrganisationFromContext(r.Context())
	return org
}
