package guard

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/session"
)

// SessionCookie names the cookie that carries the opaque session id.
const SessionCookie = "sid"

type contextKey string

const (
	sessionContextKey   contextKey = "session"
	sessionIDContextKey contextKey = "session-id"
)

// SessionFrom returns the session attached by RequireRole, or a zero session
// when the request is unauthenticated.
func SessionFrom(ctx context.Context) models.Session {
	sess, _ := ctx.Value(sessionContextKey).(models.Session)
	return sess
}

// SessionIDFrom returns the session id attached by RequireRole.
func SessionIDFrom(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDContextKey).(string)
	return sid
}

// WithSession attaches a session to the context. Exposed for handler tests.
func WithSession(ctx context.Context, sid string, sess models.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, sess)
	return context.WithValue(ctx, sessionIDContextKey, sid)
}

// Guard enforces the capability table on incoming requests.
type Guard struct {
	store  session.Store
	logger *zap.Logger
}

func New(store session.Store, logger *zap.Logger) *Guard {
	return &Guard{store: store, logger: logger}
}

// RequireRole loads the session and admits the request only when the stored
// role matches. The policy is deterministic: no session redirects to /login,
// a mismatched role redirects to that role's own dashboard.
func (g *Guard) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			sess, err := g.store.Get(r.Context(), cookie.Value)
			if errors.Is(err, session.ErrNoSession) {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			if err != nil {
				g.logger.Error("session lookup failed", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			if sess.Role != role {
				http.Redirect(w, r, DashboardPath(sess.Role), http.StatusFound)
				return
			}

			// Hand the view an explicit session instead of an ambient lookup,
			// and an outbound context that authenticates gateway calls.
			ctx := WithSession(r.Context(), cookie.Value, sess)
			ctx = gateway.WithToken(ctx, sess.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExpireSession is the reaction to gateway.ErrAuthExpired: drop the stored
// session and send the user back to the login view.
func (g *Guard) ExpireSession(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFrom(r.Context())
	if sid != "" {
		if err := g.store.Clear(r.Context(), sid); err != nil {
			g.logger.Error("failed to clear expired session", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/login", http.StatusFound)
}
