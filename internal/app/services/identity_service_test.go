package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appAuth "github.com/yigit/learnhub/internal/app/auth"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/identity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestIdentityService(users *fakeUserRepo, states *fakeStateRepo, providers ...identity.Provider) *IdentityService {
	s := NewIdentityService(identity.NewRegistry(providers...), states, users, newTestJWT(), newTestAuthz(), 5*time.Minute, testLogger)
	s.now = fixedClock
	s.newState = func() (string, error) { return "state-123", nil }
	return s
}

var githubProfile = identity.Profile{
	Provider:   "github",
	ProviderID: "42",
	Email:      "Octo@Example.com",
	Name:       "Octo Cat",
	AvatarURL:  "https://avatars.example.com/42",
}

func TestProvidersListsCredentialsFirst(t *testing.T) {
	s := newTestIdentityService(newFakeUserRepo(), newFakeStateRepo(),
		&fakeProvider{name: "google"}, &fakeProvider{name: "github"})

	got := s.Providers()
	if len(got) != 3 || got[0].ID != "credentials" || got[1].ID != "github" || got[2].ID != "google" {
		t.Fatalf("providers = %+v", got)
	}
	if got[1].SignInURL != "/api/v1/auth/oauth/github" {
		t.Fatalf("signin url = %q", got[1].SignInURL)
	}
}

func TestBeginOAuth(t *testing.T) {
	states := newFakeStateRepo()
	s := newTestIdentityService(newFakeUserRepo(), states, &fakeProvider{name: "github"})

	url, err := s.BeginOAuth(context.Background(), "github", "/student/dashboard")
	if err != nil {
		t.Fatalf("BeginOAuth: %v", err)
	}
	if !strings.HasSuffix(url, "state=state-123") {
		t.Fatalf("url = %q", url)
	}
	saved, ok := states.states["state-123"]
	if !ok || saved.Provider != "github" || saved.CallbackURL != "/student/dashboard" || states.ttls["state-123"] != 5*time.Minute {
		t.Fatalf("saved = %+v ttl = %v", saved, states.ttls["state-123"])
	}

	if _, err := s.BeginOAuth(context.Background(), "gitlab", ""); !errors.Is(err, apperrors.ErrProviderNotFound) {
		t.Fatalf("unknown provider err = %v", err)
	}
}

func TestCompleteOAuthProvisionsStudent(t *testing.T) {
	users := newFakeUserRepo()
	states := newFakeStateRepo()
	s := newTestIdentityService(users, states, &fakeProvider{name: "github", profile: githubProfile})
	ctx := context.Background()

	if _, err := s.BeginOAuth(ctx, "github", ""); err != nil {
		t.Fatal(err)
	}
	res, err := s.CompleteOAuth(ctx, "github", "state-123", "ok")
	if err != nil {
		t.Fatalf("CompleteOAuth: %v", err)
	}

	if res.Action != appAuth.ActionInsert || res.RedirectURL != "/student/dashboard" || res.Token == "" {
		t.Fatalf("result = %+v", res)
	}
	stored, err := users.GetByEmail(ctx, "octo@example.com")
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.Role != models.RoleStudent || stored.Provider != models.ProviderGitHub || stored.ProviderID != "42" || stored.Password != "" {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.LastLogin == nil || !stored.LastLogin.Equal(fixedNow) {
		t.Fatalf("lastLogin = %v", stored.LastLogin)
	}
	if res.User.ID != stored.ID.Hex() || res.User.Avatar != githubProfile.AvatarURL {
		t.Fatalf("session = %+v", res.User)
	}

	// The state is single use
	if _, err := s.CompleteOAuth(ctx, "github", "state-123", "ok"); !errors.Is(err, apperrors.ErrInvalidOAuthState) {
		t.Fatalf("replay err = %v", err)
	}
}

func TestCompleteOAuthExistingAccountKeepsRole(t *testing.T) {
	admin := &models.User{Name: "Root", Email: "octo@example.com", Password: "hash", Role: models.RoleAdmin, Provider: models.ProviderCredentials}
	users := newFakeUserRepo(admin)
	states := newFakeStateRepo()
	s := newTestIdentityService(users, states, &fakeProvider{name: "github", profile: githubProfile})
	ctx := context.Background()

	_, _ = s.BeginOAuth(ctx, "github", "https://evil.example.com/")
	res, err := s.CompleteOAuth(ctx, "github", "state-123", "ok")
	if err != nil {
		t.Fatalf("CompleteOAuth: %v", err)
	}

	if users.count() != 1 {
		t.Fatalf("users = %d, want 1", users.count())
	}
	if res.Action != appAuth.ActionBackfillAvatar || res.User.Role != models.RoleAdmin || res.RedirectURL != "/admin/dashboard" {
		t.Fatalf("result = %+v", res)
	}
	stored, _ := users.GetByEmail(ctx, "octo@example.com")
	if stored.Role != models.RoleAdmin || stored.Name != "Root" || stored.Avatar != githubProfile.AvatarURL || stored.Provider != models.ProviderCredentials {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestCompleteOAuthConcurrentFirstSignIn(t *testing.T) {
	users := newFakeUserRepo()
	users.beforeCreate = func() {
		users.put(&models.User{ID: primitive.NewObjectID(), Name: "First", Email: "octo@example.com", Role: models.RoleStudent, Provider: models.ProviderGitHub, Avatar: "https://first"})
	}
	states := newFakeStateRepo()
	s := newTestIdentityService(users, states, &fakeProvider{name: "github", profile: githubProfile})
	ctx := context.Background()

	_, _ = s.BeginOAuth(ctx, "github", "")
	res, err := s.CompleteOAuth(ctx, "github", "state-123", "ok")
	if err != nil {
		t.Fatalf("CompleteOAuth: %v", err)
	}
	if users.count() != 1 {
		t.Fatalf("users = %d, want 1", users.count())
	}
	if res.Action != appAuth.ActionNone || res.User.Name != "First" {
		t.Fatalf("result = %+v", res)
	}
}

func TestCompleteOAuthRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown state", func(t *testing.T) {
		s := newTestIdentityService(newFakeUserRepo(), newFakeStateRepo(), &fakeProvider{name: "github", profile: githubProfile})
		if _, err := s.CompleteOAuth(ctx, "github", "forged", "ok"); !errors.Is(err, apperrors.ErrInvalidOAuthState) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("state from another provider", func(t *testing.T) {
		s := newTestIdentityService(newFakeUserRepo(), newFakeStateRepo(),
			&fakeProvider{name: "github", profile: githubProfile}, &fakeProvider{name: "google"})
		_, _ = s.BeginOAuth(ctx, "google", "")
		if _, err := s.CompleteOAuth(ctx, "github", "state-123", "ok"); !errors.Is(err, apperrors.ErrInvalidOAuthState) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		users := newFakeUserRepo()
		s := newTestIdentityService(users, newFakeStateRepo(), &fakeProvider{name: "github", profile: githubProfile})
		_, _ = s.BeginOAuth(ctx, "github", "")
		if _, err := s.CompleteOAuth(ctx, "github", "state-123", "bad"); !errors.Is(err, apperrors.ErrProviderExchange) {
			t.Fatalf("err = %v", err)
		}
		if users.count() != 0 {
			t.Fatal("no user should be provisioned")
		}
	})

	t.Run("disabled provider", func(t *testing.T) {
		s := newTestIdentityService(newFakeUserRepo(), newFakeStateRepo())
		if _, err := s.CompleteOAuth(ctx, "github", "state-123", "ok"); !errors.Is(err, apperrors.ErrProviderNotFound) {
			t.Fatalf("err = %v", err)
		}
	})
}
