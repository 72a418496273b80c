package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/session"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/utils"
)

// APIHandler exposes a small JSON surface over the session and capability
// table, used by operational tooling and the browser-side status widget.
type APIHandler struct {
	store  session.Store
	logger *zap.Logger
}

func NewAPIHandler(store session.Store, logger *zap.Logger) *APIHandler {
	return &APIHandler{store: store, logger: logger}
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
	UserID        int64  `json:"userId,omitempty"`
	UserName      string `json:"userName,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Session reports the signed-in identity without ever exposing the bearer
// token.
func (h *APIHandler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(guard.SessionCookie)
	if err != nil {
		utils.JSON(w, http.StatusOK, sessionResponse{})
		return
	}

	sess, err := h.store.Get(r.Context(), cookie.Value)
	if errors.Is(err, session.ErrNoSession) {
		utils.JSON(w, http.StatusOK, sessionResponse{})
		return
	}
	if err != nil {
		h.logger.Error("session lookup failed", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.JSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Role:          string(sess.Role),
		UserID:        sess.UserID,
		UserName:      sess.UserName,
		Email:         sess.Email,
	})
}

type capabilityResponse struct {
	Role  string       `json:"role"`
	Views []viewOutput `json:"views"`
}

type viewOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Capabilities returns the view set the current session's role permits,
// straight from the capability table the navigation guard enforces.
func (h *APIHandler) Capabilities(w http.ResponseWriter, r *http.Request) {
	role := ""
	if cookie, err := r.Cookie(guard.SessionCookie); err == nil {
		if sess, err := h.store.Get(r.Context(), cookie.Value); err == nil {
			role = string(sess.Role)
		}
	}

	views := guard.Permitted(models.Role(role))
	out := capabilityResponse{Role: role, Views: make([]viewOutput, 0, len(views))}
	for _, v := range views {
		out.Views = append(out.Views, viewOutput{ID: v.ID, Title: v.Title, Path: v.Path})
	}
	utils.JSON(w, http.StatusOK, out)
}
