// Package oauth adapts external identity providers to ports.IdentityProvider.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/markbates/goth/providers/github"

	"github.com/amirhosseinghanipour/iris/internal/application/ports"
)

// GitHub endpoints; overridable for tests and GitHub Enterprise.
const (
	DefaultGitHubAuthURL    = "https://github.com/login/oauth/authorize"
	DefaultGitHubTokenURL   = "https://github.com/login/oauth/access_token"
	DefaultGitHubProfileURL = "https://api.github.com/user"
	DefaultGitHubEmailURL   = "https://api.github.com/user/emails"
)

// GitHubConfig configures the GitHub provider.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	ProfileURL   string
	EmailURL     string
	HTTPClient   *http.Client
}

// GitHub uses goth for the authorization-code leg and reads the profile and
// email list from the REST API directly, since goth's user fetch folds both
// into one call and filters emails by verification.
type GitHub struct {
	provider   *github.Provider
	client     *http.Client
	profileURL string
	emailURL   string
}

// NewGitHub builds the provider. Scopes default to user:email.
func NewGitHub(cfg GitHubConfig) *GitHub {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"user:email"}
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultGitHubAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultGitHubTokenURL
	}
	if cfg.ProfileURL == "" {
		cfg.ProfileURL = DefaultGitHubProfileURL
	}
	if cfg.EmailURL == "" {
		cfg.EmailURL = DefaultGitHubEmailURL
	}
	p := github.NewCustomisedURL(cfg.ClientID, cfg.ClientSecret, cfg.CallbackURL,
		cfg.AuthURL, cfg.TokenURL, cfg.ProfileURL, cfg.EmailURL, cfg.Scopes...)
	if cfg.HTTPClient != nil {
		p.HTTPClient = cfg.HTTPClient
	}
	return &GitHub{
		provider:   p,
		client:     p.Client(),
		profileURL: cfg.ProfileURL,
		emailURL:   cfg.EmailURL,
	}
}

func (g *GitHub) Name() string   { return g.provider.Name() }
func (g *GitHub) Domain() string { return "github.com" }

func (g *GitHub) AuthURL(state string) (string, error) {
	sess, err := g.provider.BeginAuth(state)
	if err != nil {
		return "", err
	}
	return sess.GetAuthURL()
}

// Exchange trades the authorization code for an access token.
func (g *GitHub) Exchange(ctx context.Context, code string) (string, error) {
	sess := &github.Session{}
	token, err := sess.Authorize(g.provider, url.Values{"code": {code}})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("github: empty access token")
	}
	return token, nil
}

type githubProfile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (g *GitHub) FetchProfile(ctx context.Context, accessToken string) (*ports.RemoteProfile, error) {
	var p githubProfile
	if err := g.getJSON(ctx, g.profileURL, accessToken, &p); err != nil {
		return nil, err
	}
	return &ports.RemoteProfile{
		ID:    strconv.FormatInt(p.ID, 10),
		Login: p.Login,
		Name:  p.Name,
		Email: p.Email,
	}, nil
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) FetchEmails(ctx context.Context, accessToken string) ([]ports.RemoteEmail, error) {
	var list []githubEmail
	if err := g.getJSON(ctx, g.emailURL, accessToken, &list); err != nil {
		return nil, err
	}
	out := make([]ports.RemoteEmail, 0, len(list))
	for _, e := range list {
		out = append(out, ports.RemoteEmail{Email: e.Email, Primary: e.Primary, Verified: e.Verified})
	}
	return out, nil
}

func (g *GitHub) getJSON(ctx context.Context, endpoint, accessToken string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "iris")
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github: GET %s: %d %s", endpoint, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

var _ ports.IdentityProvider = (*GitHub)(nil)
