package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "gho_test",
			"token_type":   "bearer",
			"scope":        "user:email",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gho_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 42, "login": "octo", "name": "Octo Cat", "email": nil})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"email": "second@example.com", "primary": false, "verified": true},
			{"email": "main@example.com", "primary": true, "verified": false},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGitHub(srv *httptest.Server) *GitHub {
	return NewGitHub(GitHubConfig{
		ClientID:     "cid",
		ClientSecret: "csecret",
		CallbackURL:  "http://localhost:8080/auth/callback",
		AuthURL:      srv.URL + "/login/oauth/authorize",
		TokenURL:     srv.URL + "/login/oauth/access_token",
		ProfileURL:   srv.URL + "/user",
		EmailURL:     srv.URL + "/user/emails",
		HTTPClient:   srv.Client(),
	})
}

func TestAuthURLCarriesStateAndScope(t *testing.T) {
	g := newTestGitHub(fakeGitHub(t))

	raw, err := g.AuthURL("state-123")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/login/oauth/authorize", u.Path)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "user:email", u.Query().Get("scope"))
	assert.Equal(t, "cid", u.Query().Get("client_id"))
	assert.Equal(t, "github", g.Name())
}

func TestExchangeAndFetch(t *testing.T) {
	ctx := context.Background()
	g := newTestGitHub(fakeGitHub(t))

	token, err := g.Exchange(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "gho_test", token)

	profile, err := g.FetchProfile(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "42", profile.ID)
	assert.Equal(t, "octo", profile.Login)
	assert.Equal(t, "Octo Cat", profile.Name)
	assert.Empty(t, profile.Email)

	emails, err := g.FetchEmails(ctx, token)
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.True(t, emails[1].Primary)
	assert.Equal(t, "main@example.com", emails[1].Email)
}

func TestExchangeRejectsBadCode(t *testing.T) {
	g := newTestGitHub(fakeGitHub(t))
	_, err := g.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestFetchProfileRejectsBadToken(t *testing.T) {
	g := newTestGitHub(fakeGitHub(t))
	_, err := g.FetchProfile(context.Background(), "nope")
	assert.Error(t, err)
}
