// Package identity adapts external OAuth identity providers to a single interface.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"golang.org/x/oauth2"
)

// ErrMissingEmail is returned when a provider does not disclose an email address
var ErrMissingEmail = errors.New("identity provider returned no email address")

// ErrUnverifiedEmail is returned when the provider has not verified the email it reports
var ErrUnverifiedEmail = errors.New("identity provider email address is not verified")

// Profile is the normalized external account returned by every provider
type Profile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

// Provider is the capability every OAuth identity provider implements
type Provider interface {
	// Name is the stable identifier used in routes and stored on the user ("google", "github")
	Name() string
	// DisplayName is shown on sign-in pages
	DisplayName() string
	// AuthCodeURL returns the consent page URL for the given state nonce
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the user's profile
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// Registry holds the enabled providers keyed by name
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a registry of the given providers; nil entries are skipped
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// List returns the registered providers ordered by name
func (r *Registry) List() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// getJSON fetches url with the OAuth client and decodes the JSON body into dest
func getJSON(ctx context.Context, client *http.Client, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %d", url, resp.StatusCode)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// exchangeClient exchanges the code and returns an authenticated HTTP client
func exchangeClient(ctx context.Context, cfg *oauth2.Config, code string, base *http.Client) (*http.Client, error) {
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return cfg.Client(ctx, token), nil
}
