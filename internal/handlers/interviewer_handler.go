package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/remote"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

// InterviewerHandler serves the interviewer-facing resource views.
type InterviewerHandler struct {
	base
}

func NewInterviewerHandler(api *gateway.Client, g *guard.Guard, renderer *web.Renderer, logger *zap.Logger) *InterviewerHandler {
	return &InterviewerHandler{base: base{api: api, guard: g, renderer: renderer, logger: logger}}
}

// fetchOwnInterviews loads the interviews owned by the signed-in
// interviewer, identified by name the way the backend expects.
func (h *InterviewerHandler) fetchOwnInterviews(r *http.Request) remote.Collection[models.Interview] {
	sess := guard.SessionFrom(r.Context())
	return remote.Fetch(r.Context(), func(ctx context.Context) ([]models.Interview, error) {
		return h.api.InterviewsForInterviewer(ctx, sess.UserName)
	})
}

type interviewerDashboardData struct {
	Interviews     *remote.Collection[models.Interview]
	ScheduledCount int
	CompletedCount int
}

// Dashboard shows the interviewer's interviews with scheduled/completed
// counts.
func (h *InterviewerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	interviews := h.fetchOwnInterviews(r)
	if interviews.Failed() {
		if h.authExpired(w, r, interviews.Err()) {
			return
		}
		h.logger.Error("failed to fetch interviews", zap.Error(interviews.Err()))
	}

	data := interviewerDashboardData{Interviews: &interviews}
	for _, i := range interviews.Items() {
		switch i.Status {
		case models.StatusScheduled:
			data.ScheduledCount++
		case models.StatusCompleted:
			data.CompletedCount++
		}
	}
	h.render(w, r, "interviewer_dashboard", "Dashboard", "dashboard", data)
}

type addInterviewForm struct {
	CandidateID   string
	JobTitle      string
	CompanyName   string
	InterviewDate string
	InterviewType string
	TimeSlot      string
	MeetingLink   string
	Venue         string
	Notes         string
}

type addInterviewData struct {
	Candidates *remote.Collection[models.User]
	TimeSlots  *remote.Collection[string]
	Form       addInterviewForm
}

// fetchSchedulingData loads the candidate list and time slots the
// scheduling form needs.
func (h *InterviewerHandler) fetchSchedulingData(w http.ResponseWriter, r *http.Request) (addInterviewData, bool) {
	candidates := remote.Fetch(r.Context(), func(ctx context.Context) ([]models.User, error) {
		users, err := h.api.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		filtered := users[:0:0]
		for _, u := range users {
			if u.Role == models.RoleCandidate {
				filtered = append(filtered, u)
			}
		}
		return filtered, nil
	})
	if candidates.Failed() {
		if h.authExpired(w, r, candidates.Err()) {
			return addInterviewData{}, false
		}
		h.logger.Error("failed to fetch candidates", zap.Error(candidates.Err()))
	}

	slots := remote.Fetch(r.Context(), h.api.TimeSlots)
	if slots.Failed() {
		if h.authExpired(w, r, slots.Err()) {
			return addInterviewData{}, false
		}
		h.logger.Error("failed to fetch time slots", zap.Error(slots.Err()))
	}

	return addInterviewData{Candidates: &candidates, TimeSlots: &slots}, true
}

// AddForm renders the schedule-interview form.
func (h *InterviewerHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	data, ok := h.fetchSchedulingData(w, r)
	if !ok {
		return
	}
	h.render(w, r, "interviewer_add", "Schedule Interview", "add", data)
}

// Add validates the scheduling form locally and submits it. On a validation
// or submission failure the form state is kept for correction; on success
// the form is reset.
func (h *InterviewerHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	form := addInterviewForm{
		CandidateID:   r.PostFormValue("candidateId"),
		JobTitle:      strings.TrimSpace(r.PostFormValue("jobTitle")),
		CompanyName:   strings.TrimSpace(r.PostFormValue("companyName")),
		InterviewDate: r.PostFormValue("interviewDate"),
		InterviewType: r.PostFormValue("interviewType"),
		TimeSlot:      r.PostFormValue("timeSlot"),
		MeetingLink:   strings.TrimSpace(r.PostFormValue("meetingLink")),
		Venue:         strings.TrimSpace(r.PostFormValue("venue")),
		Notes:         strings.TrimSpace(r.PostFormValue("feedback")),
	}

	data, ok := h.fetchSchedulingData(w, r)
	if !ok {
		return
	}
	data.Form = form

	candidateID, _ := strconv.ParseInt(form.CandidateID, 10, 64)
	var candidateName string
	for _, u := range data.Candidates.Items() {
		if u.ID == candidateID {
			candidateName = u.Username
			break
		}
	}
	if candidateID != 0 && candidateName == "" {
		h.renderFlash(w, r, "interviewer_add", "Schedule Interview", "add", &web.Flash{Kind: "error", Message: "Please select a valid candidate."}, data)
		return
	}

	req := gateway.AddInterviewRequest{
		User:            models.UserRef{ID: candidateID},
		CandidateName:   candidateName,
		InterviewerName: sess.UserName,
		JobTitle:        form.JobTitle,
		CompanyName:     form.CompanyName,
		InterviewDate:   form.InterviewDate,
		InterviewType:   models.InterviewType(form.InterviewType),
		MeetingLink:     form.MeetingLink,
		Venue:           form.Venue,
		TimeSlot:        form.TimeSlot,
		Status:          models.StatusScheduled,
		Feedback:        form.Notes,
	}
	// Local validation rejects the submission before any network call.
	if err := req.Validate(); err != nil {
		h.renderFlash(w, r, "interviewer_add", "Schedule Interview", "add", &web.Flash{Kind: "error", Message: capitalize(err.Error()) + "."}, data)
		return
	}

	if err := h.api.AddInterview(r.Context(), req); err != nil {
		if h.authExpired(w, r, err) {
			return
		}
		h.logger.Error("failed to schedule interview", zap.Error(err))
		h.renderFlash(w, r, "interviewer_add", "Schedule Interview", "add", &web.Flash{Kind: "error", Message: "Failed to schedule the interview. Please try again."}, data)
		return
	}

	web.SetFlash(w, "success", "Interview scheduled successfully!")
	http.Redirect(w, r, "/interviewer/add", http.StatusFound)
}

type interviewerViewData struct {
	Interviews *remote.Collection[models.Interview]
}

// View lists every interview owned by the interviewer.
func (h *InterviewerHandler) View(w http.ResponseWriter, r *http.Request) {
	interviews := h.fetchOwnInterviews(r)
	if interviews.Failed() {
		if h.authExpired(w, r, interviews.Err()) {
			return
		}
		h.logger.Error("failed to fetch interviews", zap.Error(interviews.Err()))
	}
	h.render(w, r, "interviewer_view", "View Interviews", "view", interviewerViewData{Interviews: &interviews})
}

// UpdateForm lists interviews with the transitions the status policy
// permits for each.
func (h *InterviewerHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	interviews := h.fetchOwnInterviews(r)
	if interviews.Failed() {
		if h.authExpired(w, r, interviews.Err()) {
			return
		}
		h.logger.Error("failed to fetch interviews", zap.Error(interviews.Err()))
	}
	h.render(w, r, "interviewer_update", "Update Interview", "update", interviewerViewData{Interviews: &interviews})
}

// UpdateStatus applies a status change after checking it against the
// transition policy and the interview's current state.
func (h *InterviewerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid interview id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	newStatus := models.InterviewStatus(r.PostFormValue("status"))

	interviews := h.fetchOwnInterviews(r)
	if interviews.Failed() {
		if h.authExpired(w, r, interviews.Err()) {
			return
		}
		h.logger.Error("failed to fetch interviews", zap.Error(interviews.Err()))
		web.SetFlash(w, "error", "Could not verify the interview. Please try again.")
		http.Redirect(w, r, "/interviewer/update", http.StatusFound)
		return
	}

	var current *models.Interview
	for _, i := range interviews.Items() {
		if i.ID == id {
			current = &i
			break
		}
	}
	if current == nil {
		web.SetFlash(w, "error", "That interview is not yours to update.")
		http.Redirect(w, r, "/interviewer/update", http.StatusFound)
		return
	}
	if !models.CanTransition(current.Status, newStatus) {
		web.SetFlash(w, "error", "A "+strings.ToLower(string(current.Status))+" interview cannot move to "+string(newStatus)+".")
		http.Redirect(w, r, "/interviewer/update", http.StatusFound)
		return
	}

	if err := h.api.UpdateInterviewStatus(r.Context(), id, newStatus); err != nil {
		if h.authExpired(w, r, err) {
			return
		}
		h.logger.Error("failed to update interview status", zap.Int64("id", id), zap.Error(err))
		web.SetFlash(w, "error", "Failed to update the interview status.")
		http.Redirect(w, r, "/interviewer/update", http.StatusFound)
		return
	}

	web.SetFlash(w, "success", "Interview status updated successfully.")
	http.Redirect(w, r, "/interviewer/update", http.StatusFound)
}

type feedbackForm struct {
	InterviewID           string
	OverallRating         int
	TechnicalSkillsRating int
	CommunicationRating   int
	CulturalFitRating     int
	ProblemSolvingRating  int
	Strengths             string
	Weaknesses            string
	DetailedFeedback      string
	Recommendation        string
	WouldInterviewAgain   bool
}

type feedbackData struct {
	Completed *remote.Collection[models.Interview]
	Form      feedbackForm
}

// fetchCompleted loads the interviewer's completed interviews, the only
// ones feedback may target.
func (h *InterviewerHandler) fetchCompleted(r *http.Request) remote.Collection[models.Interview] {
	sess := guard.SessionFrom(r.Context())
	return remote.Fetch(r.Context(), func(ctx context.Context) ([]models.Interview, error) {
		all, err := h.api.InterviewsForInterviewer(ctx, sess.UserName)
		if err != nil {
			return nil, err
		}
		completed := all[:0:0]
		for _, i := range all {
			if i.Status == models.StatusCompleted {
				completed = append(completed, i)
			}
		}
		return completed, nil
	})
}

// FeedbackForm renders the feedback submission form.
func (h *InterviewerHandler) FeedbackForm(w http.ResponseWriter, r *http.Request) {
	completed := h.fetchCompleted(r)
	if completed.Failed() {
		if h.authExpired(w, r, completed.Err()) {
			return
		}
		h.logger.Error("failed to fetch completed interviews", zap.Error(completed.Err()))
	}
	h.render(w, r, "interviewer_feedback", "Submit Feedback", "feedback", feedbackData{Completed: &completed, Form: feedbackForm{}})
}

// Feedback validates and submits an interviewer's feedback. The candidate's
// user id is resolved from the selected interview on this side, so a stale
// form cannot attach feedback to the wrong candidate.
func (h *InterviewerHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())
	form := feedbackForm{
		InterviewID:           r.PostFormValue("interviewId"),
		OverallRating:         formInt(r, "overallRating"),
		TechnicalSkillsRating: formInt(r, "technicalSkillsRating"),
		CommunicationRating:   formInt(r, "communicationRating"),
		CulturalFitRating:     formInt(r, "culturalFitRating"),
		ProblemSolvingRating:  formInt(r, "problemSolvingRating"),
		Strengths:             strings.TrimSpace(r.PostFormValue("strengths")),
		Weaknesses:            strings.TrimSpace(r.PostFormValue("weaknesses")),
		DetailedFeedback:      strings.TrimSpace(r.PostFormValue("detailedFeedback")),
		Recommendation:        r.PostFormValue("recommendation"),
		WouldInterviewAgain:   r.PostFormValue("wouldInterviewAgain") == "true",
	}

	interviewID, _ := strconv.ParseInt(form.InterviewID, 10, 64)
	if interviewID == 0 {
		// Rejected locally: the submission makes no network call.
		web.SetFlash(w, "error", "Please select an interview.")
		http.Redirect(w, r, "/interviewer/feedback", http.StatusFound)
		return
	}

	completed := h.fetchCompleted(r)
	if completed.Failed() {
		if h.authExpired(w, r, completed.Err()) {
			return
		}
		h.logger.Error("failed to fetch completed interviews", zap.Error(completed.Err()))
	}

	var candidateUserID int64
	for _, i := range completed.Items() {
		if i.ID == interviewID {
			candidateUserID = i.CandidateUserID()
			break
		}
	}

	req := gateway.AddFeedbackRequest{
		Interview:             models.InterviewRef{ID: interviewID},
		Interviewer:           models.UserRef{ID: sess.UserID},
		User:                  models.UserRef{ID: candidateUserID},
		OverallRating:         form.OverallRating,
		TechnicalSkillsRating: form.TechnicalSkillsRating,
		CommunicationRating:   form.CommunicationRating,
		CulturalFitRating:     form.CulturalFitRating,
		ProblemSolvingRating:  form.ProblemSolvingRating,
		Strengths:             form.Strengths,
		Weaknesses:            form.Weaknesses,
		DetailedFeedback:      form.DetailedFeedback,
		Recommendation:        models.Recommendation(form.Recommendation),
		WouldInterviewAgain:   form.WouldInterviewAgain,
	}
	if err := req.Validate(); err != nil {
		h.renderFlash(w, r, "interviewer_feedback", "Submit Feedback", "feedback", &web.Flash{Kind: "error", Message: capitalize(err.Error()) + "."}, feedbackData{Completed: &completed, Form: form})
		return
	}

	if err := h.api.AddFeedback(r.Context(), req); err != nil {
		if h.authExpired(w, r, err) {
			return
		}
		h.logger.Error("failed to submit feedback", zap.Error(err))
		h.renderFlash(w, r, "interviewer_feedback", "Submit Feedback", "feedback", &web.Flash{Kind: "error", Message: "Failed to submit feedback. Please try again."}, feedbackData{Completed: &completed, Form: form})
		return
	}

	web.SetFlash(w, "success", "Feedback submitted successfully!")
	http.Redirect(w, r, "/interviewer/feedback", http.StatusFound)
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.PostFormValue(key))
	return n
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
