package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/application/auth"
	domerrors "github.com/amirhosseinghanipour/iris/internal/domain/errors"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

const (
	oauthSessionName = "iris_oauth"
	oauthStateKey    = "state"
	oauthStateMaxAge = 600
)

// NewOAuthStateStore returns the cookie store that carries the OAuth state
// between the redirect and the callback.
func NewOAuthStateStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/auth",
		MaxAge:   oauthStateMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// OAuthHandler drives the federated login redirect and callback.
type OAuthHandler struct {
	login *auth.FederatedLogin
	store sessions.Store
	audit *Auditor
}

func NewOAuthHandler(login *auth.FederatedLogin, store sessions.Store, audit *Auditor) *OAuthHandler {
	return &OAuthHandler{login: login, store: store, audit: audit}
}

// Begin stores a fresh state in the session cookie and redirects to the
// provider's consent page.
func (h *OAuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	// A corrupt or stale cookie yields a new session; that is fine here.
	sess, _ := h.store.Get(r, oauthSessionName)
	sess.Values[oauthStateKey] = state
	if err := sess.Save(r, w); err != nil {
		respond.Err(w, r, err)
		return
	}
	authURL, err := h.login.AuthURL(state)
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// Callback completes the login. The stored state is consumed whatever the
// outcome.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	expected := ""
	sess, err := h.store.Get(r, oauthSessionName)
	if err == nil {
		expected, _ = sess.Values[oauthStateKey].(string)
		delete(sess.Values, oauthStateKey)
		sess.Options.MaxAge = -1
		_ = sess.Save(r, w)
	}

	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		middleware.RecordAuthAttempt(h.login.Provider(), false)
		zerolog.Ctx(r.Context()).Warn().Str("provider_error", errParam).Msg("provider denied authorization")
		h.audit.Record(r, "auth.federated", "", "", domerrors.ErrExchangeFailed)
		respond.Err(w, r, domerrors.ErrExchangeFailed)
		return
	}

	res, err := h.login.Execute(r.Context(), auth.FederatedLoginInput{
		Code:          q.Get("code"),
		State:         q.Get("state"),
		ExpectedState: expected,
	})
	middleware.RecordAuthAttempt(h.login.Provider(), err == nil)
	if err != nil {
		h.audit.Record(r, "auth.federated", "", "", err)
		respond.Err(w, r, err)
		return
	}
	h.audit.Record(r, "auth.federated", res.Account.ID.String(), "", nil)
	writeJSON(w, http.StatusOK, toSessionView(res, "Logged in with "+h.login.Provider()))
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
