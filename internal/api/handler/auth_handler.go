package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memberly/portal/internal/api/metrics"
	"github.com/memberly/portal/internal/api/session"
	"github.com/memberly/portal/internal/api/view"
	"github.com/memberly/portal/internal/core/domain"
	"github.com/memberly/portal/internal/core/ports"
)

// AuthHandler serves the login, registration, logout and landing flows.
type AuthHandler struct {
	directory ports.MemberDirectory
	auth      ports.Authenticator
	log       zerolog.Logger
}

func NewAuthHandler(directory ports.MemberDirectory, auth ports.Authenticator, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{directory: directory, auth: auth, log: log}
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type registerForm struct {
	FirstName string `form:"first_name" validate:"required"`
	LastName  string `form:"last_name"  validate:"required"`
	Username  string `form:"username"   validate:"required,min=3,max=50"`
	Password  string `form:"password"   validate:"required,min=4"`
}

// Index renders the landing page. It degrades gracefully: with a session
// identity the username is shown, without one the anonymous variant is.
func (h *AuthHandler) Index(c echo.Context) error {
	data := view.IndexData{}
	if identity, ok := session.FromContext(c); ok {
		data.Username = identity.Username
	}
	return c.Render(http.StatusOK, "index", data)
}

// LoginForm renders the login page. A failed attempt redirects back here
// with ?error=1; the message never says which part was wrong.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	data := view.FormData{}
	if c.QueryParam("error") != "" {
		data.Error = "Invalid username or password."
	}
	return c.Render(http.StatusOK, "login", data)
}

// Login handles the credential submission.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return c.Redirect(http.StatusFound, "/login?error=1")
	}

	target, err := h.auth.Login(c.Request().Context(), session.NewWriter(c), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.Redirect(http.StatusFound, "/login?error=1")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusSeeOther, target)
}

// Logout invalidates the session and sends the client back to the login
// entry point. Reachable by GET and POST; both have the same effect.
func (h *AuthHandler) Logout(c echo.Context) error {
	target, err := h.auth.Logout(session.NewWriter(c))
	if err != nil {
		return err
	}
	metrics.LogoutsTotal.Inc()
	return c.Redirect(http.StatusSeeOther, target)
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register", view.FormData{})
}

// Register creates the member and redirects to the login page. A duplicate
// username re-renders the form with a friendly message instead of failing
// the request.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "register", view.FormData{Error: "Invalid form submission."})
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusBadRequest, "register", view.FormData{Error: err.Error()})
	}

	created, err := h.directory.Register(c.Request().Context(), ports.RegistrationInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Username:  form.Username,
		Password:  form.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return c.Render(http.StatusConflict, "register", view.FormData{Error: "That username is already taken."})
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(created.Role).Inc()
	return c.Redirect(http.StatusSeeOther, "/login")
}
