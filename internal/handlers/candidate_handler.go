package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/remote"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

// CandidateHandler serves the candidate-facing resource views.
type CandidateHandler struct {
	base
}

func NewCandidateHandler(api *gateway.Client, g *guard.Guard, renderer *web.Renderer, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{base: base{api: api, guard: g, renderer: renderer, logger: logger}}
}

type candidateDashboardData struct {
	Interviews *remote.Collection[models.Interview]
	Scheduled  []models.Interview
}

// Dashboard shows the candidate's upcoming (scheduled) interviews.
func (h *CandidateHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())

	interviews := remote.Fetch(r.Context(), func(ctx context.Context) ([]models.Interview, error) {
		return h.api.InterviewsForUser(ctx, sess.UserID)
	})
	if interviews.Failed() {
		if h.authExpired(w, r, interviews.Err()) {
			return
		}
		h.logger.Error("failed to fetch interviews", zap.Int64("userId", sess.UserID), zap.Error(interviews.Err()))
	}

	data := candidateDashboardData{
		Interviews: &interviews,
		Scheduled: interviews.Filter(func(i models.Interview) bool {
			return i.Status == models.StatusScheduled
		}),
	}
	h.render(w, r, "candidate_dashboard", "Dashboard", "dashboard", data)
}

type jobsData struct {
	Jobs         *remote.Collection[models.JobPosition]
	StatusFilter string
	Filtered     []models.JobPosition
}

// Jobs lists every job posting, optionally filtered by status on this side.
func (h *CandidateHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	jobs := remote.Fetch(r.Context(), h.api.JobPositions)
	if jobs.Failed() {
		if h.authExpired(w, r, jobs.Err()) {
			return
		}
		h.logger.Error("failed to fetch job positions", zap.Error(jobs.Err()))
	}

	data := jobsData{
		Jobs:         &jobs,
		StatusFilter: statusFilter,
		Filtered: jobs.Filter(func(j models.JobPosition) bool {
			return statusFilter == "" || j.Status == statusFilter
		}),
	}
	h.render(w, r, "candidate_jobs", "Job Posts", "jobs", data)
}

type candidateInterviewsData struct {
	Interviews   *remote.Collection[models.Interview]
	StatusFilter string
	Filtered     []models.Interview
}

// Interviews lists all of the candidate's interviews with a status filter.
func (h *CandidateHandler) Interviews(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())
	statusFilter := r.URL.Query().Get("status")

	interviews := remote.Fetch(r.Context(), func(ctx context.Context) ([]models.Interview, error) {
		return h.api.InterviewsForUser(ctx, sess.UserID)
	})
	if interviews.Failed() {
		if h.authExpired(w, r, interviews.Err()) {
			return
		}
		h.logger.Error("failed to fetch interviews", zap.Int64("userId", sess.UserID), zap.Error(interviews.Err()))
	}

	data := candidateInterviewsData{
		Interviews:   &interviews,
		StatusFilter: statusFilter,
		Filtered: interviews.Filter(func(i models.Interview) bool {
			return statusFilter == "" || string(i.Status) == statusFilter
		}),
	}
	h.render(w, r, "candidate_interviews", "My Interviews", "interviews", data)
}

type candidateFeedbackData struct {
	Feedback *remote.Collection[models.Feedback]
}

// Feedback lists the feedback records addressed to the candidate.
func (h *CandidateHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())

	feedback := remote.Fetch(r.Context(), func(ctx context.Context) ([]models.Feedback, error) {
		return h.api.FeedbackForUser(ctx, sess.UserID)
	})
	if feedback.Failed() {
		if h.authExpired(w, r, feedback.Err()) {
			return
		}
		h.logger.Error("failed to fetch feedback", zap.Int64("userId", sess.UserID), zap.Error(feedback.Err()))
	}

	h.render(w, r, "candidate_feedback", "My Feedback", "feedback", candidateFeedbackData{Feedback: &feedback})
}
