// Package testhelpers provides a fake scheduling backend for handler and
// router tests. It speaks the same wire format as the real service and
// signs/verifies HS256 bearer tokens, so the gateway and guard are exercised
// end to end without the network.
package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
)

const jwtSecret = "test-secret"

type account struct {
	user     models.User
	password string
}

// Backend is an in-memory stand-in for the remote scheduling service.
type Backend struct {
	mu         sync.Mutex
	accounts   map[int64]account
	interviews []models.Interview
	feedback   []models.Feedback
	jobs       []models.JobPosition
	timeSlots  []string
	nextID     int64
	calls      []string

	// OmitLoginEmail drops the email field from login responses, matching
	// backends that never echo it back.
	OmitLoginEmail bool

	srv *httptest.Server
}

// NewBackend starts the fake backend and registers its shutdown with t.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		accounts: make(map[int64]account),
		timeSlots: []string{
			"09:00 AM - 10:00 AM",
			"10:00 AM - 11:00 AM",
			"02:00 PM - 03:00 PM",
		},
		nextID: 100,
	}
	b.srv = httptest.NewServer(b.router())
	t.Cleanup(b.srv.Close)
	return b
}

// URL is the backend origin to hand to the gateway.
func (b *Backend) URL() string { return b.srv.URL }

// Client returns a gateway client pointed at this backend.
func (b *Backend) Client() *gateway.Client { return gateway.New(b.srv.URL) }

// SeedUser registers an account with a known password and returns it.
func (b *Backend) SeedUser(user models.User, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if user.ID == 0 {
		b.nextID++
		user.ID = b.nextID
	}
	b.accounts[user.ID] = account{user: user, password: password}
	return user
}

// SeedInterview adds an interview and returns it with an id assigned.
func (b *Backend) SeedInterview(i models.Interview) models.Interview {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i.ID == 0 {
		b.nextID++
		i.ID = b.nextID
	}
	b.interviews = append(b.interviews, i)
	return i
}

// SeedJob adds a job posting.
func (b *Backend) SeedJob(j models.JobPosition) models.JobPosition {
	b.mu.Lock()
	defer b.mu.Unlock()
	if j.ID == 0 {
		b.nextID++
		j.ID = b.nextID
	}
	b.jobs = append(b.jobs, j)
	return j
}

// SeedFeedback adds a feedback record.
func (b *Backend) SeedFeedback(f models.Feedback) models.Feedback {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f.ID == 0 {
		b.nextID++
		f.ID = b.nextID
	}
	b.feedback = append(b.feedback, f)
	return f
}

// Interviews returns a copy of the stored interviews.
func (b *Backend) Interviews() []models.Interview {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Interview(nil), b.interviews...)
}

// Feedback returns a copy of the stored feedback records.
func (b *Backend) Feedback() []models.Feedback {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Feedback(nil), b.feedback...)
}

// Calls returns every "METHOD /path" the backend has received.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// TokenFor signs a valid bearer token for the given user id.
func (b *Backend) TokenFor(userID int64) string {
	return b.signToken(userID, time.Now().Add(time.Hour))
}

// ExpiredTokenFor signs a token the backend will reject as expired.
func (b *Backend) ExpiredTokenFor(userID int64) string {
	return b.signToken(userID, time.Now().Add(-time.Hour))
}

func (b *Backend) signToken(userID int64, expiry time.Time) string {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": expiry.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		panic(fmt.Sprintf("failed to sign test token: %v", err))
	}
	return signed
}

func (b *Backend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
}

// requireAuth rejects requests without a valid bearer token.
func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.record(req)
			next.ServeHTTP(w, req)
		})
	})

	r.Post("/user/login", b.handleLogin)
	r.Post("/user/register", b.handleRegister)

	r.Group(func(authed chi.Router) {
		authed.Use(b.requireAuth)
		authed.Get("/user/all", b.handleListUsers)
		authed.Get("/user/custom-id/{id}", b.handleGetUser)
		authed.Put("/user/update/{id}", b.handleUpdateUser)
		authed.Get("/api/interviews/time-slots", b.handleTimeSlots)
		authed.Get("/api/interviews/interviewer/{name}", b.handleInterviewsByInterviewer)
		authed.Get("/api/interviews/{userId}", b.handleInterviewsByUser)
		authed.Post("/api/interviews/add", b.handleAddInterview)
		authed.Put("/api/interviews/{id}/status", b.handleUpdateStatus)
		authed.Get("/feedback/user/{userId}", b.handleFeedbackByUser)
		authed.Post("/feedback/add", b.handleAddFeedback)
		authed.Get("/job-positions/all", b.handleJobs)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	var matched *account
	for _, acct := range b.accounts {
		if acct.user.Email == req.Email && acct.password == req.Password {
			a := acct
			matched = &a
			break
		}
	}
	b.mu.Unlock()

	if matched == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}

	resp := map[string]any{
		"token":     b.TokenFor(matched.user.ID),
		"role":      matched.user.Role,
		"firstName": matched.user.FirstName,
		"lastName":  matched.user.LastName,
		"id":        matched.user.ID,
	}
	if !b.OmitLoginEmail {
		resp["email"] = matched.user.Email
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username     string      `json:"username"`
		FirstName    string      `json:"firstName"`
		LastName     string      `json:"lastName"`
		Email        string      `json:"email"`
		PasswordHash string      `json:"passwordHash"`
		Role         models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	user := b.SeedUser(models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
	}, req.PasswordHash)
	writeJSON(w, http.StatusCreated, user)
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	users := make([]models.User, 0, len(b.accounts))
	for _, acct := range b.accounts {
		users = append(users, acct.user)
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (b *Backend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	b.mu.Lock()
	acct, ok := b.accounts[id]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, acct.user)
}

func (b *Backend) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req models.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.accounts[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
		return
	}
	req.ID = id
	acct.user = req
	b.accounts[id] = acct
	writeJSON(w, http.StatusOK, acct.user)
}

func (b *Backend) handleTimeSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.timeSlots)
}

func (b *Backend) handleInterviewsByUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Interview, 0)
	for _, i := range b.interviews {
		if i.CandidateUserID() == userID {
			out = append(out, i)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleInterviewsByInterviewer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Interview, 0)
	for _, i := range b.interviews {
		if i.InterviewerName == name {
			out = append(out, i)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleAddInterview(w http.ResponseWriter, r *http.Request) {
	var req models.Interview
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	created := b.SeedInterview(req)
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var req struct {
		Status models.InterviewStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for idx := range b.interviews {
		if b.interviews[idx].ID == id {
			b.interviews[idx].Status = req.Status
			writeJSON(w, http.StatusOK, b.interviews[idx])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "interview not found"})
}

func (b *Backend) handleFeedbackByUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Feedback, 0)
	for _, f := range b.feedback {
		if f.User != nil && f.User.ID == userID {
			out = append(out, f)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	req.SubmittedDate = time.Now().Format("2006-01-02")
	created := b.SeedFeedback(req)
	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) handleJobs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.jobs)
}
