package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
)

// LoginResponse is the backend's reply to a successful credential check.
type LoginResponse struct {
	Token     string      `json:"token"`
	Role      models.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and identity snapshot.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.Do(ctx, http.MethodPost, "/user/login", loginRequest{Email: email, Password: password}, &resp)
	return resp, err
}

// RegisterRequest creates a new user account. The backend's register
// endpoint takes the raw password under the passwordHash key.
type RegisterRequest struct {
	Username     string      `json:"username"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"passwordHash"`
	Role         models.Role `json:"role"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.Do(ctx, http.MethodPost, "/user/register", req, nil)
}

// ListUsers returns every user. Callers filter by role client-side, the same
// way the backend's other consumers do.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.Do(ctx, http.MethodGet, "/user/all", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user record. The backend answers this endpoint with
// either a bare object, an array, or a {data: ...} wrapper depending on the
// deployment, so decode defensively.
func (c *Client) GetUser(ctx context.Context, id int64) (models.User, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/user/custom-id/%d", id), nil, &raw); err != nil {
		return models.User{}, err
	}
	return decodeUserPayload(raw)
}

func decodeUserPayload(raw json.RawMessage) (models.User, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Data) > 0 {
		raw = wrapper.Data
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err == nil && user.ID != 0 {
		return user, nil
	}

	var users []models.User
	if err := json.Unmarshal(raw, &users); err == nil && len(users) > 0 {
		return users[0], nil
	}
	return models.User{}, errors.New("unrecognised user payload")
}

// UpdateUserRequest carries the editable profile fields.
type UpdateUserRequest struct {
	Username    string      `json:"username"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Department  string      `json:"department"`
	Role        models.Role `json:"role"`
}

func (c *Client) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/user/update/%d", id), req, nil)
}

// InterviewsForUser lists the interviews scheduled for a candidate.
func (c *Client) InterviewsForUser(ctx context.Context, userID int64) ([]models.Interview, error) {
	var interviews []models.Interview
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/interviews/%d", userID), nil, &interviews); err != nil {
		return nil, err
	}
	return interviews, nil
}

// InterviewsForInterviewer lists interviews owned by the named interviewer.
func (c *Client) InterviewsForInterviewer(ctx context.Context, name string) ([]models.Interview, error) {
	var interviews []models.Interview
	path := "/api/interviews/interviewer/" + url.PathEscape(name)
	if err := c.Do(ctx, http.MethodGet, path, nil, &interviews); err != nil {
		return nil, err
	}
	return interviews, nil
}

// AddInterviewRequest schedules a new interview. The candidate travels as a
// nested user reference, matching the backend's entity shape.
type AddInterviewRequest struct {
	User            models.UserRef         `json:"user"`
	CandidateName   string                 `json:"candidateName"`
	InterviewerName string                 `json:"interviewerName"`
	JobTitle        string                 `json:"jobTitle"`
	CompanyName     string                 `json:"companyName"`
	InterviewDate   string                 `json:"interviewDate"`
	InterviewType   models.InterviewType   `json:"interviewType"`
	MeetingLink     string                 `json:"meetingLink,omitempty"`
	Venue           string                 `json:"venue,omitempty"`
	TimeSlot        string                 `json:"timeSlot"`
	Status          models.InterviewStatus `json:"status"`
	Feedback        string                 `json:"feedback,omitempty"`
}

// Validation failures raised before any network call is made.
var (
	ErrCandidateRequired   = errors.New("a candidate must be selected")
	ErrTimeSlotRequired    = errors.New("a time slot must be selected")
	ErrMeetingLinkRequired = errors.New("a meeting link is required for video interviews")
	ErrVenueRequired       = errors.New("a venue is required for in-person interviews")
)

// Validate enforces the scheduling form's required fields. The meeting-link
// and venue checks are independent: each applies only to its own interview
// type.
func (r AddInterviewRequest) Validate() error {
	if r.User.ID == 0 {
		return ErrCandidateRequired
	}
	if r.TimeSlot == "" {
		return ErrTimeSlotRequired
	}
	if r.InterviewType == models.InterviewVideo && r.MeetingLink == "" {
		return ErrMeetingLinkRequired
	}
	if r.InterviewType == models.InterviewInPerson && r.Venue == "" {
		return ErrVenueRequired
	}
	return nil
}

func (c *Client) AddInterview(ctx context.Context, req AddInterviewRequest) error {
	return c.Do(ctx, http.MethodPost, "/api/interviews/add", req, nil)
}

type statusUpdateRequest struct {
	Status models.InterviewStatus `json:"status"`
}

// UpdateInterviewStatus moves one interview to a new status.
func (c *Client) UpdateInterviewStatus(ctx context.Context, id int64, status models.InterviewStatus) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/api/interviews/%d/status", id), statusUpdateRequest{Status: status}, nil)
}

// TimeSlots returns the backend's predefined interview time slots.
func (c *Client) TimeSlots(ctx context.Context) ([]string, error) {
	var slots []string
	if err := c.Do(ctx, http.MethodGet, "/api/interviews/time-slots", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// FeedbackForUser lists feedback records addressed to a candidate.
func (c *Client) FeedbackForUser(ctx context.Context, userID int64) ([]models.Feedback, error) {
	var records []models.Feedback
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/feedback/user/%d", userID), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AddFeedbackRequest submits an interviewer's verdict on a completed
// interview.
type AddFeedbackRequest struct {
	Interview             models.InterviewRef   `json:"interview"`
	Interviewer           models.UserRef        `json:"interviewer"`
	User                  models.UserRef        `json:"user"`
	OverallRating         int                   `json:"overallRating"`
	TechnicalSkillsRating int                   `json:"technicalSkillsRating"`
	CommunicationRating   int                   `json:"communicationRating"`
	CulturalFitRating     int                   `json:"culturalFitRating"`
	ProblemSolvingRating  int                   `json:"problemSolvingRating"`
	Strengths             string                `json:"strengths"`
	Weaknesses            string                `json:"weaknesses"`
	DetailedFeedback      string                `json:"detailedFeedback"`
	Recommendation        models.Recommendation `json:"recommendation"`
	WouldInterviewAgain   bool                  `json:"wouldInterviewAgain"`
}

var (
	ErrInterviewRequired = errors.New("an interview must be selected")
	ErrCandidateUnknown  = errors.New("the selected interview has no candidate attached")
)

func (r AddFeedbackRequest) Validate() error {
	if r.Interview.ID == 0 {
		return ErrInterviewRequired
	}
	if r.User.ID == 0 {
		return ErrCandidateUnknown
	}
	return nil
}

func (c *Client) AddFeedback(ctx context.Context, req AddFeedbackRequest) error {
	return c.Do(ctx, http.MethodPost, "/feedback/add", req, nil)
}

// JobPositions lists every job posting. Read-only from this side.
func (c *Client) JobPositions(ctx context.Context) ([]models.JobPosition, error) {
	var jobs []models.JobPosition
	if err := c.Do(ctx, http.MethodGet, "/job-positions/all", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
