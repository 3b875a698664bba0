package handlers

import (
	"net/http"

	"github.com/amirhosseinghanipour/iris/internal/application/auth"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

// AuthHandler serves password sign-in and the development login.
type AuthHandler struct {
	signIn   *auth.SignIn
	devLogin *auth.DevLogin
	audit    *Auditor
}

// NewAuthHandler builds the handler. devLogin may be nil, in which case
// TestLogin is not routed.
func NewAuthHandler(signIn *auth.SignIn, devLogin *auth.DevLogin, audit *Auditor) *AuthHandler {
	return &AuthHandler{signIn: signIn, devLogin: devLogin, audit: audit}
}

// DevLoginEnabled reports whether TestLogin should be mounted.
func (h *AuthHandler) DevLoginEnabled() bool { return h.devLogin != nil }

type signInBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	res, err := h.signIn.Execute(r.Context(), auth.SignInInput{
		Email:    sanitizeEmail(body.Email),
		Password: body.Password,
	})
	middleware.RecordAuthAttempt("password", err == nil)
	if err != nil {
		h.audit.Record(r, "auth.signin", "", "", err)
		respond.Err(w, r, err)
		return
	}
	h.audit.Record(r, "auth.signin", res.Account.ID.String(), "", nil)
	writeJSON(w, http.StatusOK, toSessionView(res, "Signed in"))
}

type testLoginBody struct {
	UserID string `json:"user_id" validate:"required"`
}

// TestLogin handles POST /auth/test-login. It mints a session for an existing
// account without credentials and is only mounted in development.
func (h *AuthHandler) TestLogin(w http.ResponseWriter, r *http.Request) {
	var body testLoginBody
	if err := decode(r, &body); err != nil {
		respond.Err(w, r, err)
		return
	}
	res, err := h.devLogin.Execute(r.Context(), body.UserID)
	middleware.RecordAuthAttempt("test", err == nil)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	h.audit.Record(r, "auth.test_login", res.Account.ID.String(), "", nil)
	writeJSON(w, http.StatusOK, toSessionView(res, "Test login successful"))
}
