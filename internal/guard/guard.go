// Package guard decides which views a session may enter. The capability
// table below is the single source of truth: the route middleware and the
// sidebar menu renderer both consume it, so navigation and authorization can
// never disagree.
package guard

import (
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
)

// View describes one navigable screen.
type View struct {
	ID    string
	Title string
	Path  string
}

var publicViews = []View{
	{ID: "home", Title: "Home", Path: "/"},
	{ID: "login", Title: "Login", Path: "/login"},
	{ID: "register", Title: "Register", Path: "/register"},
}

var candidateViews = []View{
	{ID: "dashboard", Title: "Dashboard", Path: "/dashboard/candidate"},
	{ID: "jobs", Title: "Job Posts", Path: "/candidate/jobs"},
	{ID: "interviews", Title: "My Interviews", Path: "/candidate/interviews"},
	{ID: "feedback", Title: "My Feedback", Path: "/candidate/feedback"},
	{ID: "profile", Title: "My Profile", Path: "/candidate/profile"},
}

var interviewerViews = []View{
	{ID: "dashboard", Title: "Dashboard", Path: "/dashboard/interviewer"},
	{ID: "add", Title: "Schedule Interview", Path: "/interviewer/add"},
	{ID: "view", Title: "View Interviews", Path: "/interviewer/view"},
	{ID: "update", Title: "Update Interview", Path: "/interviewer/update"},
	{ID: "feedback", Title: "Submit Feedback", Path: "/interviewer/feedback"},
	{ID: "profile", Title: "My Profile", Path: "/interviewer/profile"},
}

// Permitted returns the ordered views the given role may enter. An empty
// role (no session) permits only the public views.
func Permitted(role models.Role) []View {
	switch role {
	case models.RoleCandidate:
		return candidateViews
	case models.RoleInterviewer:
		return interviewerViews
	default:
		return publicViews
	}
}

// Allows reports whether the role may enter the view with the given id.
func Allows(role models.Role, viewID string) bool {
	for _, v := range Permitted(role) {
		if v.ID == viewID {
			return true
		}
	}
	return false
}

// DashboardPath is where a signed-in user lands after login or after being
// bounced off a view their role does not permit.
func DashboardPath(role models.Role) string {
	switch role {
	case models.RoleInterviewer:
		return "/dashboard/interviewer"
	default:
		return "/dashboard/candidate"
	}
}
