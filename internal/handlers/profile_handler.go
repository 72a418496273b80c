package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

// ProfileHandler serves the view/update-own-profile screen for both roles;
// only the surrounding menu differs.
type ProfileHandler struct {
	base
}

func NewProfileHandler(api *gateway.Client, g *guard.Guard, renderer *web.Renderer, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{base: base{api: api, guard: g, renderer: renderer, logger: logger}}
}

type profileData struct {
	User   models.User
	Action string
	Failed bool
}

func profileAction(role models.Role) string {
	if role == models.RoleInterviewer {
		return "/interviewer/profile"
	}
	return "/candidate/profile"
}

// Show fetches and renders the signed-in user's profile.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess := guard.SessionFrom(r.Context())

	user, err := h.api.GetUser(r.Context(), sess.UserID)
	if err != nil {
		if h.authExpired(w, r, err) {
			return
		}
		h.logger.Error("failed to fetch profile", zap.Int64("userId", sess.UserID), zap.Error(err))
		h.render(w, r, "profile", "My Profile", "profile", profileData{Failed: true})
		return
	}

	h.render(w, r, "profile", "My Profile", "profile", profileData{User: user, Action: profileAction(sess.Role)})
}

// Update saves the editable profile fields back to the backend.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := guard.SessionFrom(r.Context())

	form := models.User{
		ID:          sess.UserID,
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		FirstName:   strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:    strings.TrimSpace(r.PostFormValue("lastName")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		PhoneNumber: strings.TrimSpace(r.PostFormValue("phoneNumber")),
		Department:  strings.TrimSpace(r.PostFormValue("department")),
		Role:        sess.Role,
	}

	if form.Username == "" || form.Email == "" {
		h.renderFlash(w, r, "profile", "My Profile", "profile", &web.Flash{Kind: "error", Message: "Username and email are required."}, profileData{User: form, Action: profileAction(sess.Role)})
		return
	}

	req := gateway.UpdateUserRequest{
		Username:    form.Username,
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Department:  form.Department,
		Role:        sess.Role,
	}
	if err := h.api.UpdateUser(r.Context(), sess.UserID, req); err != nil {
		if h.authExpired(w, r, err) {
			return
		}
		h.logger.Error("failed to update profile", zap.Int64("userId", sess.UserID), zap.Error(err))
		h.renderFlash(w, r, "profile", "My Profile", "profile", &web.Flash{Kind: "error", Message: "Failed to update your profile. Please try again."}, profileData{User: form, Action: profileAction(sess.Role)})
		return
	}

	web.SetFlash(w, "success", "Profile updated successfully.")
	http.Redirect(w, r, profileAction(sess.Role), http.StatusFound)
}
