package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/handlers"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/routers"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/session"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/testhelpers"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

// testApp wires the full router against the fake backend, with a cookie jar
// so flows spanning several requests behave like a browser. Redirects are
// not followed so they can be asserted.
type testApp struct {
	t       *testing.T
	backend *testhelpers.Backend
	store   *session.MemoryStore
	srv     *httptest.Server
	client  *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := testhelpers.NewBackend(t)
	store := session.NewMemoryStore(session.DefaultTTL)
	logger := zap.NewNop()
	g := guard.New(store, logger)
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	api := backend.Client()

	r := chi.NewRouter()
	routers.Register(r, g, routers.Handlers{
		Auth:        handlers.NewAuthHandler(api, store, g, renderer, logger),
		Candidate:   handlers.NewCandidateHandler(api, g, renderer, logger),
		Interviewer: handlers.NewInterviewerHandler(api, g, renderer, logger),
		Profile:     handlers.NewProfileHandler(api, g, renderer, logger),
		API:         handlers.NewAPIHandler(store, logger),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{t: t, backend: backend, store: store, srv: srv, client: client}
}

func (a *testApp) get(path string) *http.Response {
	a.t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(a.t, err)
	return resp
}

func (a *testApp) postForm(path string, form url.Values) *http.Response {
	a.t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(a.t, err)
	return resp
}

func (a *testApp) body(resp *http.Response) string {
	a.t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return string(b)
}

func (a *testApp) seedCandidate() models.User {
	return a.backend.SeedUser(models.User{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Tan",
		Email:     "alice@example.com",
		Role:      models.RoleCandidate,
	}, "secret1")
}

func (a *testApp) seedInterviewer() models.User {
	return a.backend.SeedUser(models.User{
		Username:  "ben",
		FirstName: "Ben",
		LastName:  "Lee",
		Email:     "ben@example.com",
		Role:      models.RoleInterviewer,
	}, "secret2")
}

func (a *testApp) login(email, password string) *http.Response {
	a.t.Helper()
	return a.postForm("/login", url.Values{"email": {email}, "password": {password}})
}

// planted installs a session directly in the store and the cookie jar,
// bypassing the login flow.
func (a *testApp) planted(sid string, sess models.Session) {
	a.t.Helper()
	require.NoError(a.t, a.store.Set(context.Background(), sid, sess))
	u, err := url.Parse(a.srv.URL)
	require.NoError(a.t, err)
	a.client.Jar.SetCookies(u, []*http.Cookie{{Name: guard.SessionCookie, Value: sid, Path: "/"}})
}

func countCalls(calls []string, entry string) int {
	n := 0
	for _, c := range calls {
		if c == entry {
			n++
		}
	}
	return n
}

func TestLoginRedirectsToRoleDashboard(t *testing.T) {
	tests := []struct {
		name string
		seed func(*testApp) models.User
		pass string
		want string
	}{
		{"candidate", (*testApp).seedCandidate, "secret1", "/dashboard/candidate"},
		{"interviewer", (*testApp).seedInterviewer, "secret2", "/dashboard/interviewer"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			user := tc.seed(app)

			resp := app.login(user.Email, tc.pass)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tc.want, resp.Header.Get("Location"))
		})
	}
}

func TestLoginInvalidCredentialsShowsError(t *testing.T) {
	app := newTestApp(t)
	app.seedCandidate()

	resp := app.login("alice@example.com", "wrong")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := app.body(resp)
	assert.Contains(t, body, "Invalid email or password.")
	assert.Contains(t, body, "alice@example.com")
}

func TestLoginKeepsSubmittedEmailWhenBackendOmitsIt(t *testing.T) {
	app := newTestApp(t)
	app.seedCandidate()
	app.backend.OmitLoginEmail = true

	resp := app.login("alice@example.com", "secret1")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var got struct {
		Authenticated bool   `json:"authenticated"`
		Email         string `json:"email"`
		UserName      string `json:"userName"`
	}
	require.NoError(t, json.Unmarshal([]byte(app.body(app.get("/api/v1/session"))), &got))
	assert.True(t, got.Authenticated)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "Alice Tan", got.UserName)
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/dashboard/candidate", "/candidate/interviews", "/dashboard/interviewer", "/interviewer/add"} {
		resp := app.get(path)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestGuardRedirectsWrongRoleToOwnDashboard(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.login(user.Email, "secret1").Body.Close()

	resp := app.get("/dashboard/interviewer")
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/candidate", resp.Header.Get("Location"))
	// The interviewer view never ran.
	assert.Zero(t, countCalls(app.backend.Calls(), "GET /api/interviews/interviewer/Alice Tan"))
}

func TestExpiredTokenClearsSessionAndRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.planted("sid-expired", models.Session{
		Token:    app.backend.ExpiredTokenFor(user.ID),
		Role:     models.RoleCandidate,
		UserID:   user.ID,
		UserName: "Alice Tan",
		Email:    user.Email,
	})

	resp := app.get("/candidate/interviews")
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_, err := app.store.Get(context.Background(), "sid-expired")
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestCandidateDashboardEmptyState(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.login(user.Email, "secret1").Body.Close()

	body := app.body(app.get("/dashboard/candidate"))

	assert.Contains(t, body, "No upcoming interviews scheduled.")
	assert.NotContains(t, body, "load-error")
}

func TestCandidateDashboardShowsOnlyScheduled(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.backend.SeedInterview(models.Interview{
		User:          &models.UserRef{ID: user.ID},
		CandidateName: "alice",
		JobTitle:      "Backend Engineer",
		Status:        models.StatusScheduled,
		InterviewType: models.InterviewVideo,
		MeetingLink:   "https://meet.example.com/1",
	})
	app.backend.SeedInterview(models.Interview{
		User:          &models.UserRef{ID: user.ID},
		CandidateName: "alice",
		JobTitle:      "Data Analyst",
		Status:        models.StatusCompleted,
		InterviewType: models.InterviewVideo,
	})
	app.login(user.Email, "secret1").Body.Close()

	body := app.body(app.get("/dashboard/candidate"))

	assert.Contains(t, body, "Backend Engineer")
	assert.NotContains(t, body, "Data Analyst")
}

func TestCandidateJobsStatusFilter(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.backend.SeedJob(models.JobPosition{Title: "Platform Engineer", Status: "OPEN"})
	app.backend.SeedJob(models.JobPosition{Title: "Site Reliability Engineer", Status: "CLOSED"})
	app.login(user.Email, "secret1").Body.Close()

	body := app.body(app.get("/candidate/jobs?status=OPEN"))
	assert.Contains(t, body, "Platform Engineer")
	assert.NotContains(t, body, "Site Reliability Engineer")

	body = app.body(app.get("/candidate/jobs"))
	assert.Contains(t, body, "Platform Engineer")
	assert.Contains(t, body, "Site Reliability Engineer")
}

func TestScheduleInterviewValidationMakesNoNetworkCall(t *testing.T) {
	app := newTestApp(t)
	app.seedCandidate()
	interviewer := app.seedInterviewer()
	app.login(interviewer.Email, "secret2").Body.Close()

	// No candidate selected, otherwise complete.
	resp := app.postForm("/interviewer/add", url.Values{
		"candidateId":   {"0"},
		"jobTitle":      {"Backend Engineer"},
		"companyName":   {"Acme"},
		"interviewDate": {"2026-09-01"},
		"interviewType": {"VIDEO"},
		"timeSlot":      {"09:00 AM - 10:00 AM"},
		"meetingLink":   {"https://meet.example.com/2"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := app.body(resp)
	assert.Contains(t, body, "A candidate must be selected.")
	assert.Zero(t, countCalls(app.backend.Calls(), "POST /api/interviews/add"))
	assert.Empty(t, app.backend.Interviews())
}

func TestScheduleInterviewSuccess(t *testing.T) {
	app := newTestApp(t)
	candidate := app.seedCandidate()
	interviewer := app.seedInterviewer()
	app.login(interviewer.Email, "secret2").Body.Close()

	resp := app.postForm("/interviewer/add", url.Values{
		"candidateId":   {strconvItoa(candidate.ID)},
		"jobTitle":      {"Backend Engineer"},
		"companyName":   {"Acme"},
		"interviewDate": {"2026-09-01"},
		"interviewType": {"IN_PERSON"},
		"timeSlot":      {"09:00 AM - 10:00 AM"},
		"venue":         {"12 Science Park Drive"},
	})
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/interviewer/add", resp.Header.Get("Location"))

	interviews := app.backend.Interviews()
	require.Len(t, interviews, 1)
	assert.Equal(t, candidate.ID, interviews[0].CandidateUserID())
	assert.Equal(t, "alice", interviews[0].CandidateName)
	assert.Equal(t, "Ben Lee", interviews[0].InterviewerName)
	assert.Equal(t, models.StatusScheduled, interviews[0].Status)
}

func TestUpdateStatusScheduledToCompleted(t *testing.T) {
	app := newTestApp(t)
	interviewer := app.seedInterviewer()
	seeded := app.backend.SeedInterview(models.Interview{
		InterviewerName: "Ben Lee",
		JobTitle:        "Backend Engineer",
		Status:          models.StatusScheduled,
	})
	app.login(interviewer.Email, "secret2").Body.Close()

	resp := app.postForm("/interviewer/update/"+strconvItoa(seeded.ID), url.Values{"status": {"COMPLETED"}})
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	interviews := app.backend.Interviews()
	require.Len(t, interviews, 1)
	assert.Equal(t, models.StatusCompleted, interviews[0].Status)
}

func TestUpdateStatusRejectsTerminalTransition(t *testing.T) {
	app := newTestApp(t)
	interviewer := app.seedInterviewer()
	seeded := app.backend.SeedInterview(models.Interview{
		InterviewerName: "Ben Lee",
		JobTitle:        "Backend Engineer",
		Status:          models.StatusCompleted,
	})
	app.login(interviewer.Email, "secret2").Body.Close()

	resp := app.postForm("/interviewer/update/"+strconvItoa(seeded.ID), url.Values{"status": {"SCHEDULED"}})
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Zero(t, countCalls(app.backend.Calls(), "PUT /api/interviews/"+strconvItoa(seeded.ID)+"/status"))
	assert.Equal(t, models.StatusCompleted, app.backend.Interviews()[0].Status)
}

func TestUpdateStatusRejectsForeignInterview(t *testing.T) {
	app := newTestApp(t)
	interviewer := app.seedInterviewer()
	seeded := app.backend.SeedInterview(models.Interview{
		InterviewerName: "Someone Else",
		Status:          models.StatusScheduled,
	})
	app.login(interviewer.Email, "secret2").Body.Close()

	resp := app.postForm("/interviewer/update/"+strconvItoa(seeded.ID), url.Values{"status": {"COMPLETED"}})
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, models.StatusScheduled, app.backend.Interviews()[0].Status)
}

func TestFeedbackWithoutSelectionMakesNoNetworkCall(t *testing.T) {
	app := newTestApp(t)
	interviewer := app.seedInterviewer()
	app.login(interviewer.Email, "secret2").Body.Close()
	before := len(app.backend.Calls())

	resp := app.postForm("/interviewer/feedback", url.Values{
		"overallRating": {"4"},
		"strengths":     {"clear communication"},
	})
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/interviewer/feedback", resp.Header.Get("Location"))
	assert.Equal(t, before, len(app.backend.Calls()))
}

func TestFeedbackResolvesCandidateFromInterview(t *testing.T) {
	app := newTestApp(t)
	candidate := app.seedCandidate()
	interviewer := app.seedInterviewer()
	seeded := app.backend.SeedInterview(models.Interview{
		User:            &models.UserRef{ID: candidate.ID},
		InterviewerName: "Ben Lee",
		Status:          models.StatusCompleted,
	})
	app.login(interviewer.Email, "secret2").Body.Close()

	resp := app.postForm("/interviewer/feedback", url.Values{
		"interviewId":           {strconvItoa(seeded.ID)},
		"overallRating":         {"4"},
		"technicalSkillsRating": {"5"},
		"communicationRating":   {"4"},
		"culturalFitRating":     {"3"},
		"problemSolvingRating":  {"5"},
		"strengths":             {"clear communication"},
		"weaknesses":            {"rushed edge cases"},
		"detailedFeedback":      {"Strong overall."},
		"recommendation":        {"HIRE"},
		"wouldInterviewAgain":   {"true"},
	})
	resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	records := app.backend.Feedback()
	require.Len(t, records, 1)
	require.NotNil(t, records[0].User)
	assert.Equal(t, candidate.ID, records[0].User.ID)
	require.NotNil(t, records[0].Interview)
	assert.Equal(t, seeded.ID, records[0].Interview.ID)
	require.NotNil(t, records[0].Interviewer)
	assert.Equal(t, interviewer.ID, records[0].Interviewer.ID)
	assert.Equal(t, models.RecommendHire, records[0].Recommendation)
}

func TestRegisterThenLogin(t *testing.T) {
	app := newTestApp(t)

	resp := app.postForm("/register", url.Values{
		"username":  {"carol"},
		"firstName": {"Carol"},
		"lastName":  {"Ng"},
		"email":     {"carol@example.com"},
		"password":  {"secret3"},
		"role":      {"INTERVIEWER"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	login := app.login("carol@example.com", "secret3")
	login.Body.Close()
	assert.Equal(t, http.StatusFound, login.StatusCode)
	assert.Equal(t, "/dashboard/interviewer", login.Header.Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.login(user.Email, "secret1").Body.Close()

	resp := app.postForm("/logout", url.Values{})
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	after := app.get("/dashboard/candidate")
	after.Body.Close()
	assert.Equal(t, http.StatusFound, after.StatusCode)
	assert.Equal(t, "/login", after.Header.Get("Location"))
}

func TestSessionEndpointNeverExposesToken(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.login(user.Email, "secret1").Body.Close()

	sess, err := app.store.Get(context.Background(), sessionID(t, app))
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	body := app.body(app.get("/api/v1/session"))
	assert.NotContains(t, body, sess.Token)
	assert.Contains(t, body, `"authenticated":true`)
	assert.Contains(t, body, user.Email)
}

func TestCapabilitiesFollowRole(t *testing.T) {
	app := newTestApp(t)

	var anon struct {
		Role  string `json:"role"`
		Views []struct {
			ID string `json:"id"`
		} `json:"views"`
	}
	require.NoError(t, json.Unmarshal([]byte(app.body(app.get("/api/v1/capabilities"))), &anon))
	assert.Empty(t, anon.Role)

	user := app.seedInterviewer()
	app.login(user.Email, "secret2").Body.Close()

	var authed struct {
		Role  string `json:"role"`
		Views []struct {
			ID   string `json:"id"`
			Path string `json:"path"`
		} `json:"views"`
	}
	require.NoError(t, json.Unmarshal([]byte(app.body(app.get("/api/v1/capabilities"))), &authed))
	assert.Equal(t, "INTERVIEWER", authed.Role)

	paths := make([]string, 0, len(authed.Views))
	for _, v := range authed.Views {
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, "/interviewer/add")
	assert.NotContains(t, paths, "/candidate/jobs")
}

func TestProfileUpdateRoundTrip(t *testing.T) {
	app := newTestApp(t)
	user := app.seedCandidate()
	app.login(user.Email, "secret1").Body.Close()

	resp := app.postForm("/candidate/profile", url.Values{
		"username":    {"alice"},
		"firstName":   {"Alice"},
		"lastName":    {"Tan"},
		"email":       {"alice@example.com"},
		"phoneNumber": {"5551234"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/candidate/profile", resp.Header.Get("Location"))

	body := app.body(app.get("/candidate/profile"))
	assert.Contains(t, body, "5551234")
	assert.Contains(t, body, "Profile updated successfully.")
}

// sessionID digs the sid cookie out of the jar.
func sessionID(t *testing.T, app *testApp) string {
	t.Helper()
	u, err := url.Parse(app.srv.URL)
	require.NoError(t, err)
	for _, c := range app.client.Jar.Cookies(u) {
		if c.Name == guard.SessionCookie {
			return c.Value
		}
	}
	t.Fatal("no session cookie in jar")
	return ""
}

func strconvItoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
