package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sanjay-M1512/interview-scheduler-management/internal/gateway"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/guard"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/models"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/session"
	"github.com/Sanjay-M1512/interview-scheduler-management/internal/web"
)

// AuthHandler manages the login, registration, and logout flows.
type AuthHandler struct {
	base
	store session.Store

	// newSessionID is swappable in tests.
	newSessionID func() string
}

func NewAuthHandler(api *gateway.Client, store session.Store, g *guard.Guard, renderer *web.Renderer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		base:         base{api: api, guard: g, renderer: renderer, logger: logger},
		store:        store,
		newSessionID: uuid.NewString,
	}
}

type loginForm struct {
	Email string
}

// Home renders the public landing page.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home", "Welcome", "home", nil)
}

// LoginForm renders the sign-in form.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Sign in", "login", loginForm{})
}

// Login exchanges credentials with the backend and, on success, stores the
// identity snapshot and lands the user on their role's dashboard.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		h.renderFlash(w, r, "login", "Sign in", "login", &web.Flash{Kind: "error", Message: "Email and password are required."}, loginForm{Email: email})
		return
	}

	resp, err := h.api.Login(r.Context(), email, password)
	if err != nil {
		message := "Could not reach the scheduling service. Please try again."
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			message = "Invalid email or password."
		} else {
			h.logger.Error("login failed", zap.Error(err))
		}
		h.renderFlash(w, r, "login", "Sign in", "login", &web.Flash{Kind: "error", Message: message}, loginForm{Email: email})
		return
	}

	// The backend does not always echo the email back; keep the one the
	// user signed in with in that case.
	sessEmail := resp.Email
	if sessEmail == "" {
		sessEmail = email
	}
	sess := models.Session{
		Token:    resp.Token,
		Role:     resp.Role,
		UserID:   resp.ID,
		UserName: strings.TrimSpace(resp.FirstName + " " + resp.LastName),
		Email:    sessEmail,
	}

	sid := h.newSessionID()
	if err := h.store.Set(r.Context(), sid, sess); err != nil {
		h.logger.Error("failed to store session", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     guard.SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	web.SetFlash(w, "success", "Welcome "+resp.FirstName+"!")
	http.Redirect(w, r, guard.DashboardPath(sess.Role), http.StatusFound)
}

type registerForm struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      models.Role
}

// RegisterForm renders the account creation form.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", "Register", "register", registerForm{Role: models.RoleCandidate})
}

// Register creates an account with the backend and sends the user to login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := registerForm{
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		FirstName: strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:  strings.TrimSpace(r.PostFormValue("lastName")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Role:      models.Role(r.PostFormValue("role")),
	}
	password := r.PostFormValue("password")

	if form.Username == "" || form.FirstName == "" || form.Email == "" || password == "" || !form.Role.Valid() {
		h.renderFlash(w, r, "register", "Register", "register", &web.Flash{Kind: "error", Message: "Please fill in every required field."}, form)
		return
	}

	err := h.api.Register(r.Context(), gateway.RegisterRequest{
		Username:     form.Username,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		PasswordHash: password,
		Role:         form.Role,
	})
	if err != nil {
		h.logger.Error("registration failed", zap.Error(err))
		h.renderFlash(w, r, "register", "Register", "register", &web.Flash{Kind: "error", Message: "Registration failed. Please try again."}, form)
		return
	}

	web.SetFlash(w, "success", "Registration successful! Please sign in.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Logout clears the stored session and the cookie, then returns to login.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(guard.SessionCookie); err == nil {
		if err := h.store.Clear(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to clear session", zap.Error(err))
		}
	}
	http.SetCookie(w, &http.Cookie{Name: guard.SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/login", http.StatusFound)
}
