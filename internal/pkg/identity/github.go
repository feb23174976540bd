package identity

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const githubAPIURL = "https://api.github.com"

// GitHubProvider signs users in with GitHub
type GitHubProvider struct {
	config     *oauth2.Config
	apiURL     string
	httpClient *http.Client
}

// GitHubOption customizes a GitHubProvider
type GitHubOption func(*GitHubProvider)

// WithGitHubEndpoints overrides the OAuth endpoint and the REST API base URL
func WithGitHubEndpoints(endpoint oauth2.Endpoint, apiURL string) GitHubOption {
	return func(p *GitHubProvider) {
		p.config.Endpoint = endpoint
		p.apiURL = strings.TrimRight(apiURL, "/")
	}
}

// WithGitHubHTTPClient sets the HTTP client used for token and profile requests
func WithGitHubHTTPClient(c *http.Client) GitHubOption {
	return func(p *GitHubProvider) { p.httpClient = c }
}

// NewGitHubProvider creates the GitHub provider
func NewGitHubProvider(clientID, clientSecret, redirectURL string, opts ...GitHubOption) *GitHubProvider {
	p := &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.GitHub,
			Scopes:       []string{"read:user", "user:email"},
		},
		apiURL: githubAPIURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GitHubProvider) Name() string        { return "github" }
func (p *GitHubProvider) DisplayName() string { return "GitHub" }

// AuthCodeURL implements Provider
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange implements Provider. Users with a private email are resolved through
// the emails endpoint, preferring the primary verified address.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	client, err := exchangeClient(ctx, p.config, code, p.httpClient)
	if err != nil {
		return nil, err
	}

	var user githubUser
	if err := getJSON(ctx, client, p.apiURL+"/user", &user); err != nil {
		return nil, err
	}

	email := user.Email
	if email == "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, p.apiURL+"/user/emails", &emails); err != nil {
			return nil, err
		}
		email = pickGitHubEmail(emails)
	}
	if email == "" {
		return nil, ErrMissingEmail
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &Profile{
		Provider:   p.Name(),
		ProviderID: strconv.FormatInt(user.ID, 10),
		Email:      email,
		Name:       name,
		AvatarURL:  user.AvatarURL,
	}, nil
}

func pickGitHubEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}
