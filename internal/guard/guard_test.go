package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/session"
)

func TestPermittedPerRole(t *testing.T) {
	candidateIDs := []string{}
	for _, v := range Permitted(models.RoleCandidate) {
		candidateIDs = append(candidateIDs, v.ID)
	}
	assert.Equal(t, []string{"dashboard", "jobs", "interviews", "feedback", "profile"}, candidateIDs)

	interviewerIDs := []string{}
	for _, v := range Permitted(models.RoleInterviewer) {
		interviewerIDs = append(interviewerIDs, v.ID)
	}
	assert.Equal(t, []string{"dashboard", "add", "view", "update", "feedback", "profile"}, interviewerIDs)

	publicIDs := []string{}
	for _, v := range Permitted("") {
		publicIDs = append(publicIDs, v.ID)
	}
	assert.Equal(t, []string{"home", "login", "register"}, publicIDs)
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(models.RoleCandidate, "jobs"))
	assert.False(t, Allows(models.RoleCandidate, "add"))
	assert.True(t, Allows(models.RoleInterviewer, "add"))
	assert.False(t, Allows(models.RoleInterviewer, "jobs"))
	assert.True(t, Allows("", "login"))
	assert.False(t, Allows("", "dashboard"))
}

func newTestGuard(t *testing.T) (*Guard, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	return New(store, zap.NewNop()), store
}

func protectedHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRoleNoCookieRedirectsToLogin(t *testing.T) {
	g, _ := newTestGuard(t)
	called := false

	req := httptest.NewRequest(http.MethodGet, "/dashboard/candidate", nil)
	rec := httptest.NewRecorder()
	g.RequireRole(models.RoleCandidate)(protectedHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireRoleUnknownSessionRedirectsToLogin(t *testing.T) {
	g, _ := newTestGuard(t)
	called := false

	req := httptest.NewRequest(http.MethodGet, "/dashboard/candidate", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "ghost"})
	rec := httptest.NewRecorder()
	g.RequireRole(models.RoleCandidate)(protectedHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireRoleWrongRoleRedirectsToOwnDashboard(t *testing.T) {
	g, store := newTestGuard(t)
	called := false

	sess := models.Session{Token: "abc", Role: models.RoleCandidate, UserID: 7, UserName: "Ana Lima"}
	require.NoError(t, store.Set(context.Background(), "sid-1", sess))

	// A candidate session may never reach an interviewer view.
	req := httptest.NewRequest(http.MethodGet, "/interviewer/add", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-1"})
	rec := httptest.NewRecorder()
	g.RequireRole(models.RoleInterviewer)(protectedHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called, "interviewer action must not execute for a candidate session")
	assert.Equal(t, "/dashboard/candidate", rec.Header().Get("Location"))
}

func TestRequireRoleAdmitsMatchingRole(t *testing.T) {
	g, store := newTestGuard(t)

	sess := models.Session{Token: "abc", Role: models.RoleInterviewer, UserID: 9, UserName: "Ben Ong"}
	require.NoError(t, store.Set(context.Background(), "sid-2", sess))

	var gotSession models.Session
	var gotSID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = SessionFrom(r.Context())
		gotSID = SessionIDFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/interviewer/add", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-2"})
	rec := httptest.NewRecorder()
	g.RequireRole(models.RoleInterviewer)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess, gotSession)
	assert.Equal(t, "sid-2", gotSID)
}

func TestExpireSessionClearsStoreAndRedirects(t *testing.T) {
	g, store := newTestGuard(t)

	sess := models.Session{Token: "stale", Role: models.RoleCandidate, UserID: 7}
	require.NoError(t, store.Set(context.Background(), "sid-3", sess))

	req := httptest.NewRequest(http.MethodGet, "/candidate/interviews", nil)
	req = req.WithContext(WithSession(req.Context(), "sid-3", sess))
	rec := httptest.NewRecorder()
	g.ExpireSession(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	_, err := store.Get(context.Background(), "sid-3")
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/dashboard/candidate", DashboardPath(models.RoleCandidate))
	assert.Equal(t, "/dashboard/interviewer", DashboardPath(models.RoleInterviewer))
}
