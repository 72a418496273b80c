// Package routers wires every view onto the chi router, with the navigation
// guard enforcing the capability table on the role-scoped subtrees.
package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/handlers"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/metrics"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

// Handlers groups the view handlers the router mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Candidate   *handlers.CandidateHandler
	Interviewer *handlers.InterviewerHandler
	Profile     *handlers.ProfileHandler
	API         *handlers.APIHandler
}

// Register mounts every route. Public views need no session; the candidate
// and interviewer subtrees are admitted by role.
func Register(r chi.Router, g *guard.Guard, h Handlers) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Handle("/static/*", web.StaticHandler())

	// Public views
	r.Get("/", h.Auth.Home)
	r.Get("/login", h.Auth.LoginForm)
	r.Post("/login", h.Auth.Login)
	r.Get("/register", h.Auth.RegisterForm)
	r.Post("/register", h.Auth.Register)
	r.Post("/logout", h.Auth.Logout)

	// JSON surface
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/session", h.API.Session)
		api.Get("/capabilities", h.API.Capabilities)
	})

	// Candidate views
	r.Group(func(c chi.Router) {
		c.Use(g.RequireRole(models.RoleCandidate))
		c.Get("/dashboard/candidate", h.Candidate.Dashboard)
		c.Get("/candidate/jobs", h.Candidate.Jobs)
		c.Get("/candidate/interviews", h.Candidate.Interviews)
		c.Get("/candidate/feedback", h.Candidate.Feedback)
		c.Get("/candidate/profile", h.Profile.Show)
		c.Post("/candidate/profile", h.Profile.Update)
	})

	// Interviewer views
	r.Group(func(i chi.Router) {
		i.Use(g.RequireRole(models.RoleInterviewer))
		i.Get("/dashboard/interviewer", h.Interviewer.Dashboard)
		i.Get("/interviewer/add", h.Interviewer.AddForm)
		i.Post("/interviewer/add", h.Interviewer.Add)
		i.Get("/interviewer/view", h.Interviewer.View)
		i.Get("/interviewer/update", h.Interviewer.UpdateForm)
		i.Post("/interviewer/update/{id}", h.Interviewer.UpdateStatus)
		i.Get("/interviewer/feedback", h.Interviewer.FeedbackForm)
		i.Post("/interviewer/feedback", h.Interviewer.Feedback)
		i.Get("/interviewer/profile", h.Profile.Show)
		i.Post("/interviewer/profile", h.Profile.Update)
	})
}
