// Package handlers implements the resource views: each one fetches the
// collections it needs through the gateway, renders them, and (for the
// mutating views) validates form input locally before submitting.
package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

// base carries the collaborators every view handler needs.
type base struct {
	api      *gateway.Client
	guard    *guard.Guard
	renderer *web.Renderer
	logger   *zap.Logger
}

// render wraps the page data in the shared envelope: title, active menu
// entry, the capability-table menu for the session's role, and any pending
// flash message.
func (b base) render(w http.ResponseWriter, r *http.Request, page, title, active string, data any) {
	b.renderFlash(w, r, page, title, active, web.PopFlash(w, r), data)
}

// renderFlash renders with an explicit flash message. Failure paths that
// re-render the same form use this instead of SetFlash, which only surfaces
// on the next request.
func (b base) renderFlash(w http.ResponseWriter, r *http.Request, page, title, active string, flash *web.Flash, data any) {
	sess := guard.SessionFrom(r.Context())
	envelope := web.Page{
		Title:   title,
		Active:  active,
		Menu:    guard.Permitted(sess.Role),
		Session: sess,
		Flash:   flash,
		Data:    data,
	}
	if err := b.renderer.Render(w, page, envelope); err != nil {
		b.logger.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// authExpired intercepts a rejected token: the guard clears the session and
// sends the user back to login. Returns true when the response is written.
func (b base) authExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if errors.Is(err, gateway.ErrAuthExpired) {
		b.guard.ExpireSession(w, r)
		return true
	}
	return false
}
