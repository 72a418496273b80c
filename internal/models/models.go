// Package models holds the transient, non-authoritative copies of the
// scheduling backend's entities. The backend remains the system of record;
// nothing here is persisted locally except the Session.
package models

// Role is the role assigned to a user by the scheduling backend.
type Role string

const (
	RoleCandidate   Role = "CANDIDATE"
	RoleInterviewer Role = "INTERVIEWER"
)

// Valid reports whether the role is one the backend can issue.
func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleInterviewer
}

// InterviewType distinguishes remote from on-site interviews.
type InterviewType string

const (
	InterviewVideo    InterviewType = "VIDEO"
	InterviewInPerson InterviewType = "IN_PERSON"
)

// InterviewStatus is the lifecycle state of an interview.
type InterviewStatus string

const (
	StatusScheduled InterviewStatus = "SCHEDULED"
	StatusCompleted InterviewStatus = "COMPLETED"
)

// statusTransitions is the explicit transition policy for interview status
// updates issued from this front-end. COMPLETED is terminal.
var statusTransitions = map[InterviewStatus][]InterviewStatus{
	StatusScheduled: {StatusCompleted},
	StatusCompleted: {},
}

// AllowedTransitions returns the statuses an interview may move to from the
// given status.
func AllowedTransitions(from InterviewStatus) []InterviewStatus {
	return statusTransitions[from]
}

// CanTransition reports whether a status update from -> to is permitted.
func CanTransition(from, to InterviewStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Session is the identity snapshot held for a signed-in browser session.
type Session struct {
	Token    string `json:"token"`
	Role     Role   `json:"role"`
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// UserRef is the nested user reference the backend embeds in interviews and
// feedback records.
type UserRef struct {
	ID int64 `json:"id"`
}

// Interview mirrors the backend's interview entity.
type Interview struct {
	ID              int64           `json:"id"`
	User            *UserRef        `json:"user,omitempty"`
	CandidateName   string          `json:"candidateName"`
	InterviewerName string          `json:"interviewerName"`
	JobTitle        string          `json:"jobTitle"`
	CompanyName     string          `json:"companyName"`
	InterviewDate   string          `json:"interviewDate"`
	InterviewType   InterviewType   `json:"interviewType"`
	TimeSlot        string          `json:"timeSlot"`
	MeetingLink     string          `json:"meetingLink,omitempty"`
	Venue           string          `json:"venue,omitempty"`
	Status          InterviewStatus `json:"status"`
	Feedback        string          `json:"feedback,omitempty"`
}

// CandidateUserID returns the embedded candidate user id, or 0 when the
// backend omitted the reference.
func (i Interview) CandidateUserID() int64 {
	if i.User == nil {
		return 0
	}
	return i.User.ID
}

// Recommendation is an interviewer's hiring verdict.
type Recommendation string

const (
	RecommendHire   Recommendation = "HIRE"
	RecommendNoHire Recommendation = "NO_HIRE"
)

// InterviewRef is the nested interview reference in a feedback record.
type InterviewRef struct {
	ID          int64  `json:"id"`
	JobTitle    string `json:"jobTitle,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

// Feedback mirrors the backend's feedback entity.
type Feedback struct {
	ID                    int64          `json:"id"`
	Interview             *InterviewRef  `json:"interview,omitempty"`
	Interviewer           *UserRef       `json:"interviewer,omitempty"`
	User                  *UserRef       `json:"user,omitempty"`
	OverallRating         int            `json:"overallRating"`
	TechnicalSkillsRating int            `json:"technicalSkillsRating"`
	CommunicationRating   int            `json:"communicationRating"`
	CulturalFitRating     int            `json:"culturalFitRating"`
	ProblemSolvingRating  int            `json:"problemSolvingRating"`
	Strengths             string         `json:"strengths"`
	Weaknesses            string         `json:"weaknesses"`
	DetailedFeedback      string         `json:"detailedFeedback"`
	Recommendation        Recommendation `json:"recommendation"`
	WouldInterviewAgain   bool           `json:"wouldInterviewAgain"`
	SubmittedDate         string         `json:"submittedDate"`
}

// JobPosition mirrors the backend's job posting entity. Read-only here.
type JobPosition struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Department     string `json:"department"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	Status         string `json:"status"`
	Description    string `json:"description"`
}

// User mirrors the backend's user entity.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Department  string `json:"department,omitempty"`
	Role        Role   `json:"role"`
}
